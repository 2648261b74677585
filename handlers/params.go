package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mseongj/jiga-news/gnews"
)

// 조회 모드 우선순위: keyword > topic > location > site > 주요 뉴스
var modePriority = []struct {
	param string
	query func(string) gnews.Query
}{
	{"keyword", gnews.Keyword},
	{"topic", gnews.Topic},
	{"location", gnews.Location},
	{"site", gnews.Site},
}

// SelectQuery는 값이 비어 있지 않은 첫 번째 모드 파라미터로 Query를 만든다.
// 아무것도 없으면 주요 뉴스.
func SelectQuery(values url.Values) gnews.Query {
	for _, m := range modePriority {
		if term := strings.TrimSpace(values.Get(m.param)); term != "" {
			return m.query(term)
		}
	}
	return gnews.TopHeadlines()
}

// ParseOptions는 요청 파라미터로 이번 요청 전용 설정을 만든다.
// 잘못된 값은 *APIError(invalid_parameter)로 돌려준다.
func ParseOptions(values url.Values) (gnews.Options, error) {
	opts := gnews.DefaultOptions()

	if v := values.Get("language"); v != "" {
		lang, err := gnews.ParseLanguage(v)
		if err != nil {
			return opts, invalidParam("language", err)
		}
		opts.Language = lang
	}

	if v := values.Get("country"); v != "" {
		country, err := gnews.ParseCountry(v)
		if err != nil {
			return opts, invalidParam("country", err)
		}
		opts.Country = country
	}

	if v := values.Get("period"); v != "" {
		if _, ok := gnews.PeriodDuration(v); !ok {
			return opts, invalidParam("period", fmt.Errorf("period %q must look like 12h, 7d, 1m or 1y", v))
		}
		opts.Period = v
	}

	if values.Has("max_results") {
		n, err := parseMaxResults(values.Get("max_results"))
		if err != nil {
			return opts, invalidParam("max_results", err)
		}
		opts.MaxResults = n
	}

	if values.Has("exclude_websites") {
		sites, err := parseExcludeWebsites(values.Get("exclude_websites"))
		if err != nil {
			return opts, invalidParam("exclude_websites", err)
		}
		opts.ExcludeWebsites = sites
	}

	for _, p := range []struct {
		name string
		dst  **gnews.Date
	}{
		{"start_date", &opts.StartDate},
		{"end_date", &opts.EndDate},
	} {
		if !values.Has(p.name) {
			continue
		}
		d, err := gnews.ParseDate(values.Get(p.name))
		if err != nil {
			return opts, invalidParam(p.name, fmt.Errorf("%s must be a valid YYYY-MM-DD date: %w", p.name, err))
		}
		*p.dst = &d
	}

	if opts.StartDate != nil && opts.EndDate != nil && opts.StartDate.After(*opts.EndDate) {
		return opts, invalidParam("start_date", fmt.Errorf("start_date %s is after end_date %s", opts.StartDate, opts.EndDate))
	}

	return opts, nil
}

// 1 미만은 거부하고 구글 뉴스 상한(100)을 넘으면 잘라낸다
func parseMaxResults(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("max_results %q is not an integer", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("max_results must be at least 1, got %d", n)
	}
	if n > gnews.MaxResultsLimit {
		n = gnews.MaxResultsLimit
	}
	return n, nil
}

// 쉼표로 나누고 앞뒤 공백과 빈 항목은 버린다. 순서는 유지.
func parseExcludeWebsites(raw string) ([]string, error) {
	sites := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !gnews.ValidDomain(s) {
			return nil, fmt.Errorf("%q is not a domain name", s)
		}
		sites = append(sites, s)
	}
	return sites, nil
}
