package models

// NewsItem은 개별 뉴스 기사 항목입니다.
// JSON 키는 프론트엔드(JigaNews)가 읽는 형태를 그대로 따릅니다.
type NewsItem struct {
	Title         string    `json:"title"`          // 기사 제목
	Description   string    `json:"description"`    // 요약 (HTML 제거됨)
	PublishedDate string    `json:"published date"` // 발행일 (RSS pubDate 원문)
	URL           string    `json:"url"`            // 기사 URL
	Publisher     Publisher `json:"publisher"`      // 언론사
}

// Publisher는 기사를 낸 언론사 정보입니다.
type Publisher struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// ErrorResponse는 /news 실패 시 반환되는 JSON 본문입니다.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}
