package gnews

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/mseongj/jiga-news/logger"
	"github.com/mseongj/jiga-news/models"
)

const DefaultBaseURL = "https://news.google.com/rss"

var (
	// ErrUpstream은 구글 뉴스 요청/응답/파싱 실패를 감싼다.
	ErrUpstream = errors.New("gnews: upstream failure")
	// ErrUnknownTopic은 지원하지 않는 토픽 이름
	ErrUnknownTopic = errors.New("gnews: unknown topic")
)

// Topics는 구글 뉴스 섹션 토픽 목록. 앱 필터에 있는 8개만 지원하고
// POLITICS 같은 하위 토픽(/topics/<id>)은 ErrUnknownTopic으로 처리한다.
var Topics = []string{
	"WORLD", "NATION", "BUSINESS", "TECHNOLOGY",
	"ENTERTAINMENT", "SPORTS", "SCIENCE", "HEALTH",
}

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client는 구글 뉴스 RSS 조회 클라이언트입니다. 여러 고루틴에서 동시에 써도 된다.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *logger.Logger
	now        func() time.Time
}

func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log,
		now: time.Now,
	}
}

// Fetch는 Query의 모드에 맞는 조회 함수 하나만 호출한다.
func (c *Client) Fetch(ctx context.Context, q Query, opts Options) ([]models.NewsItem, error) {
	switch q.Mode {
	case ModeKeyword:
		return c.ByKeyword(ctx, q.Term, opts)
	case ModeTopic:
		return c.ByTopic(ctx, q.Term, opts)
	case ModeLocation:
		return c.ByLocation(ctx, q.Term, opts)
	case ModeSite:
		return c.BySite(ctx, q.Term, opts)
	case ModeTopHeadlines:
		return c.TopNews(ctx, opts)
	}
	return nil, fmt.Errorf("gnews: unsupported mode %d", q.Mode)
}

// TopNews는 주요 뉴스 피드를 가져온다.
func (c *Client) TopNews(ctx context.Context, opts Options) ([]models.NewsItem, error) {
	return c.feed(ctx, "", opts)
}

// ByKeyword는 검색 결과 피드를 가져온다. 기간/날짜/제외 사이트는 검색 연산자로 붙는다.
func (c *Client) ByKeyword(ctx context.Context, keyword string, opts Options) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", searchTerms(keyword, opts))
	items, err := c.get(ctx, c.buildURL("/search", params, opts))
	if err != nil {
		return nil, err
	}
	return c.collect(items, opts, time.Time{}, time.Time{}), nil
}

func (c *Client) BySite(ctx context.Context, site string, opts Options) ([]models.NewsItem, error) {
	return c.ByKeyword(ctx, "site:"+site, opts)
}

func (c *Client) ByTopic(ctx context.Context, topic string, opts Options) ([]models.NewsItem, error) {
	t := strings.ToUpper(strings.TrimSpace(topic))
	if !isTopic(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	return c.feed(ctx, "/headlines/section/topic/"+t, opts)
}

func (c *Client) ByLocation(ctx context.Context, location string, opts Options) ([]models.NewsItem, error) {
	return c.feed(ctx, "/headlines/section/geo/"+url.PathEscape(strings.TrimSpace(location)), opts)
}

// feed는 검색 연산자를 쓸 수 없는 섹션 피드용. 기간과 날짜 범위는 발행 시각으로 직접 거른다.
func (c *Client) feed(ctx context.Context, path string, opts Options) ([]models.NewsItem, error) {
	items, err := c.get(ctx, c.buildURL(path, url.Values{}, opts))
	if err != nil {
		return nil, err
	}
	from, to := opts.window(c.now())
	return c.collect(items, opts, from, to), nil
}

func (c *Client) buildURL(path string, params url.Values, opts Options) string {
	params.Set("hl", opts.Language)
	params.Set("gl", opts.Country)
	params.Set("ceid", opts.Country+":"+opts.Language)
	return c.baseURL + path + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, rawURL string) ([]*rss.Item, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrUpstream, resp.StatusCode)
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse rss: %w", ErrUpstream, err)
	}

	c.log.WithRequest(ctx).WithField("url", rawURL).
		WithField("items", len(feed.Items)).
		WithField("duration", time.Since(start).String()).
		Debug("google news feed fetched")

	return feed.Items, nil
}

// collect는 제외 사이트와 발행 시각 범위를 적용하고 MaxResults개까지 자른다.
func (c *Client) collect(items []*rss.Item, opts Options, from, to time.Time) []models.NewsItem {
	limit := opts.MaxResults
	if limit <= 0 || limit > MaxResultsLimit {
		limit = MaxResultsLimit
	}

	result := make([]models.NewsItem, 0, limit)
	for _, item := range items {
		if len(result) >= limit {
			break
		}

		news := toNewsItem(item)
		if excluded(news, opts.ExcludeWebsites) {
			continue
		}
		if item.PubDateParsed != nil && !inWindow(*item.PubDateParsed, from, to) {
			continue
		}
		result = append(result, news)
	}
	return result
}

func toNewsItem(item *rss.Item) models.NewsItem {
	news := models.NewsItem{
		Title:         strings.TrimSpace(item.Title),
		Description:   plainText(item.Description),
		PublishedDate: item.PubDate,
		URL:           strings.TrimSpace(item.Link),
	}
	if item.Source != nil {
		news.Publisher = models.Publisher{
			Href:  item.Source.URL,
			Title: item.Source.Title,
		}
	}
	return news
}

// excluded는 언론사 주소로만 판단한다. 기사 링크는 모두 news.google.com 이라 쓰지 않는다.
func excluded(news models.NewsItem, sites []string) bool {
	if len(sites) == 0 {
		return false
	}
	u, err := url.Parse(news.Publisher.Href)
	if err != nil || u.Host == "" {
		return false
	}
	for _, site := range sites {
		if hostMatches(u.Hostname(), site) {
			return true
		}
	}
	return false
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// searchTerms는 검색어 뒤에 구글 검색 연산자를 붙인다.
// 날짜 범위가 있으면 when: 은 붙이지 않는다.
func searchTerms(term string, opts Options) string {
	parts := []string{strings.TrimSpace(term)}
	if !opts.HasDateRange() && opts.Period != "" {
		parts = append(parts, "when:"+opts.Period)
	}
	if opts.StartDate != nil {
		parts = append(parts, "after:"+opts.StartDate.String())
	}
	if opts.EndDate != nil {
		parts = append(parts, "before:"+opts.EndDate.String())
	}
	for _, site := range opts.ExcludeWebsites {
		parts = append(parts, "-site:"+site)
	}
	return strings.Join(parts, " ")
}

func isTopic(t string) bool {
	for _, topic := range Topics {
		if topic == t {
			return true
		}
	}
	return false
}
