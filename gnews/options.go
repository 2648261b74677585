package gnews

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DateLayout은 start_date / end_date 입력 형식
const DateLayout = "2006-01-02"

// MaxResultsLimit은 구글 뉴스 RSS가 한 번에 주는 최대 기사 수
const MaxResultsLimit = 100

var (
	periodPattern = regexp.MustCompile(`^([0-9]+)([hdmy])$`)
	alphaPattern  = regexp.MustCompile(`^[A-Za-z]{2,3}$`)
	domainPattern = regexp.MustCompile(`^(?i)([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
)

// Date는 연/월/일 세 값으로만 이루어진 날짜입니다.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate는 YYYY-MM-DD 문자열을 Date로 바꾼다.
// 13월, 2월 30일처럼 존재하지 않는 날짜는 에러.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time은 해당 날짜의 UTC 자정
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// Options는 한 번의 조회에 적용되는 설정입니다.
// 요청마다 새로 만들어서 값으로 넘긴다.
type Options struct {
	Language        string
	Country         string
	Period          string
	MaxResults      int
	ExcludeWebsites []string
	StartDate       *Date
	EndDate         *Date
}

func DefaultOptions() Options {
	return Options{
		Language:        "en",
		Country:         "US",
		Period:          "7d",
		MaxResults:      10,
		ExcludeWebsites: []string{},
	}
}

// HasDateRange는 시작일이나 종료일 중 하나라도 지정됐는지 알려준다.
func (o Options) HasDateRange() bool {
	return o.StartDate != nil || o.EndDate != nil
}

// window는 피드 모드에서 로컬로 거를 발행 시각 범위를 계산한다.
// 날짜 범위가 있으면 기간(period)보다 우선한다. to는 배타적이며 0이면 상한 없음.
func (o Options) window(now time.Time) (from, to time.Time) {
	if o.HasDateRange() {
		if o.StartDate != nil {
			from = o.StartDate.Time()
		}
		if o.EndDate != nil {
			to = o.EndDate.Time()
		}
		return from, to
	}
	if d, ok := PeriodDuration(o.Period); ok {
		from = now.Add(-d)
	}
	return from, to
}

// ParseLanguage는 BCP 47 언어 태그를 검증하고 정규화한다. (en, ko, pt-BR ...)
// und(미정)는 구글 뉴스가 제공하지 않으므로 거부한다.
func ParseLanguage(s string) (string, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	if strings.HasPrefix(tag.String(), "und") {
		return "", fmt.Errorf("invalid language %q: undetermined language", s)
	}
	return tag.String(), nil
}

// ParseCountry는 알파벳 국가 코드를 검증하고 대문자로 정규화한다. (US, KR ...)
// 419 같은 숫자 지역 코드나 국가가 아닌 지역은 거부한다.
func ParseCountry(s string) (string, error) {
	if !alphaPattern.MatchString(s) {
		return "", fmt.Errorf("invalid country %q: must be an alphabetic country code", s)
	}
	region, err := language.ParseRegion(s)
	if err != nil {
		return "", fmt.Errorf("invalid country %q: %w", s, err)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("invalid country %q: not a country", s)
	}
	return region.String(), nil
}

// PeriodDuration은 "12h", "7d", "1m", "1y" 형식의 기간을 해석한다.
// m은 30일, y는 365일로 본다.
func PeriodDuration(period string) (time.Duration, bool) {
	m := periodPattern.FindStringSubmatch(period)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	day := 24 * time.Hour
	var unit time.Duration
	switch m[2] {
	case "h":
		unit = time.Hour
	case "d":
		unit = day
	case "m":
		unit = 30 * day
	default:
		unit = 365 * day
	}
	// int64 나노초를 넘기면 거부 (약 292년)
	if n > int64(math.MaxInt64/unit) {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

// ValidDomain은 exclude_websites 항목이 도메인 형식인지 확인한다.
func ValidDomain(s string) bool {
	return domainPattern.MatchString(s)
}

// hostMatches는 host가 site 자신이거나 그 하위 도메인이면 true
func hostMatches(host, site string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	site = strings.TrimPrefix(strings.ToLower(site), "www.")
	return host == site || strings.HasSuffix(host, "."+site)
}
