package gnews

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText는 RSS description의 HTML 태그와 엔티티를 걷어내고 공백을 정리한다.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
