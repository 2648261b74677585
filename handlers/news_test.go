package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mseongj/jiga-news/gnews"
	"github.com/mseongj/jiga-news/logger"
	"github.com/mseongj/jiga-news/models"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []gnews.Query
	opts    []gnews.Options
	items   []models.NewsItem
	err     error
	onFetch func(ctx context.Context)
}

func (f *fakeFetcher) Fetch(ctx context.Context, q gnews.Query, opts gnews.Options) ([]models.NewsItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(ctx)
	}
	return f.items, f.err
}

var sampleItems = []models.NewsItem{
	{
		Title:         "Election results - CNN",
		Description:   "Election results CNN",
		PublishedDate: "Mon, 15 Jan 2024 10:00:00 GMT",
		URL:           "https://news.google.com/rss/articles/A",
		Publisher:     models.Publisher{Href: "https://www.cnn.com", Title: "CNN"},
	},
}

func serve(h *NewsHandler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.GetNews(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) models.ErrorResponse {
	var body models.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

func TestGetNews(t *testing.T) {
	Convey("GET /news", t, func() {
		fetcher := &fakeFetcher{items: sampleItems}
		log := logger.Discard()
		h := NewNewsHandler(fetcher, log, time.Second)

		Convey("성공하면 JSON 배열과 CORS 헤더를 준다", func() {
			rec := serve(h, "/news?keyword=election")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(rec.Header().Get("Content-Type"), ShouldEqual, "application/json")

			var raw []map[string]interface{}
			So(json.Unmarshal(rec.Body.Bytes(), &raw), ShouldBeNil)
			So(len(raw), ShouldEqual, 1)
			So(raw[0]["published date"], ShouldEqual, "Mon, 15 Jan 2024 10:00:00 GMT")
			So(raw[0]["publisher"].(map[string]interface{})["title"], ShouldEqual, "CNN")
		})

		Convey("keyword가 있으면 다른 모드 파라미터는 무시된다", func() {
			serve(h, "/news?keyword=election&topic=WORLD&location=Seoul&site=bbc.com")
			So(fetcher.calls, ShouldResemble, []gnews.Query{gnews.Keyword("election")})
		})

		Convey("모드 파라미터가 없으면 주요 뉴스", func() {
			serve(h, "/news?language=ko&country=KR")
			So(fetcher.calls, ShouldResemble, []gnews.Query{gnews.TopHeadlines()})
			So(fetcher.opts[0].Language, ShouldEqual, "ko")
			So(fetcher.opts[0].Country, ShouldEqual, "KR")
		})

		Convey("max_results 기본값은 10, 지정하면 그 값", func() {
			serve(h, "/news")
			serve(h, "/news?max_results=3")
			So(fetcher.opts[0].MaxResults, ShouldEqual, 10)
			So(fetcher.opts[1].MaxResults, ShouldEqual, 3)
		})

		Convey("exclude_websites는 순서대로 나뉜다", func() {
			serve(h, "/news?exclude_websites=cnn.com,bbc.com")
			So(fetcher.opts[0].ExcludeWebsites, ShouldResemble, []string{"cnn.com", "bbc.com"})
		})

		Convey("요청마다 설정이 새로 만들어진다", func() {
			serve(h, "/news?max_results=5&exclude_websites=cnn.com&start_date=2024-01-01")
			serve(h, "/news")
			So(fetcher.opts[1], ShouldResemble, gnews.DefaultOptions())
		})

		Convey("요청이 동시에 와도 설정이 섞이지 않는다", func() {
			const n = 50
			var wg sync.WaitGroup
			codes := make([]int, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					target := fmt.Sprintf("/news?keyword=k%d&max_results=%d&exclude_websites=site%d.com", i, i+1, i)
					codes[i] = serve(h, target).Code
				}(i)
			}
			wg.Wait()

			for _, code := range codes {
				So(code, ShouldEqual, http.StatusOK)
			}
			So(len(fetcher.calls), ShouldEqual, n)
			for i, q := range fetcher.calls {
				var k int
				fmt.Sscanf(q.Term, "k%d", &k)
				So(fetcher.opts[i].MaxResults, ShouldEqual, k+1)
				So(fetcher.opts[i].ExcludeWebsites, ShouldResemble, []string{fmt.Sprintf("site%d.com", k)})
			}
		})

		Convey("너무 긴 period는 404가 아니라 400", func() {
			rec := serve(h, "/news?period=9999999d")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(rec).Param, ShouldEqual, "period")
			So(fetcher.calls, ShouldBeEmpty)
		})

		Convey("잘못된 start_date는 400", func() {
			rec := serve(h, "/news?start_date=2024-13-40")

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			body := decodeError(rec)
			So(body.Error, ShouldEqual, "invalid_parameter")
			So(body.Param, ShouldEqual, "start_date")
			So(fetcher.calls, ShouldBeEmpty)
		})

		Convey("숫자가 아닌 max_results는 400", func() {
			rec := serve(h, "/news?max_results=ten")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(rec).Param, ShouldEqual, "max_results")
			So(fetcher.calls, ShouldBeEmpty)
		})

		Convey("모르는 토픽은 400", func() {
			fetcher.err = fmt.Errorf("%w: %q", gnews.ErrUnknownTopic, "astrology")
			rec := serve(h, "/news?topic=astrology")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(rec).Param, ShouldEqual, "topic")
		})

		Convey("업스트림 실패는 502", func() {
			fetcher.items = nil
			fetcher.err = fmt.Errorf("%w: status code 503", gnews.ErrUpstream)
			rec := serve(h, "/news?keyword=go")

			So(rec.Code, ShouldEqual, http.StatusBadGateway)
			body := decodeError(rec)
			So(body.Error, ShouldEqual, "upstream_failure")
			So(body.Message, ShouldEqual, "news source is unavailable")
		})

		Convey("업스트림 시간 초과는 504", func() {
			fetcher.items = nil
			fetcher.err = fmt.Errorf("%w: %w", gnews.ErrUpstream, context.DeadlineExceeded)
			rec := serve(h, "/news?keyword=go")
			So(rec.Code, ShouldEqual, http.StatusGatewayTimeout)
			So(decodeError(rec).Error, ShouldEqual, "upstream_failure")
		})

		Convey("결과가 비면 404", func() {
			fetcher.items = []models.NewsItem{}
			rec := serve(h, "/news?keyword=nothing")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(rec).Error, ShouldEqual, "no_results")
		})

		Convey("조회에는 마감 시간이 걸린다", func() {
			var deadline time.Time
			var ok bool
			fetcher.onFetch = func(ctx context.Context) { deadline, ok = ctx.Deadline() }
			serve(h, "/news")
			So(ok, ShouldBeTrue)
			So(time.Until(deadline), ShouldBeLessThanOrEqualTo, time.Second)
		})

		Convey("메트릭이 기록된다", func() {
			serve(h, "/news?keyword=go")
			serve(h, "/news?start_date=bad")
			m := log.GetMetrics()
			So(m.RequestsTotal, ShouldEqual, 2)
			So(m.RequestsSucceeded, ShouldEqual, 1)
			So(m.ErrorsByType["invalid_parameter"], ShouldEqual, 1)
			So(m.RequestsByMode["keyword"], ShouldEqual, 1)
			So(m.RequestsByMode["top"], ShouldEqual, 1)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("에러 분류", t, func() {
		So(classify(invalidParam("x", errors.New("bad"))).Status(), ShouldEqual, http.StatusBadRequest)
		So(classify(errors.New("boom")).Status(), ShouldEqual, http.StatusBadGateway)
		So(classify(context.DeadlineExceeded).Status(), ShouldEqual, http.StatusGatewayTimeout)
		So(classify(errNoResults).Status(), ShouldEqual, http.StatusNotFound)
		So(errNoResults.Error(), ShouldEqual, "no_results: no news matched the query")
	})
}
