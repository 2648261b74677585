package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mseongj/jiga-news/gnews"
	"github.com/mseongj/jiga-news/logger"
	"github.com/mseongj/jiga-news/models"
	"github.com/sirupsen/logrus"
)

// NewsFetcher는 구글 뉴스 조회기. *gnews.Client가 구현한다.
type NewsFetcher interface {
	Fetch(ctx context.Context, q gnews.Query, opts gnews.Options) ([]models.NewsItem, error)
}

type NewsHandler struct {
	fetcher NewsFetcher
	log     *logger.Logger
	timeout time.Duration
}

// NewNewsHandler는 /news 핸들러를 만든다. timeout이 0 이하이면 요청 컨텍스트만 따른다.
func NewNewsHandler(fetcher NewsFetcher, log *logger.Logger, timeout time.Duration) *NewsHandler {
	return &NewsHandler{fetcher: fetcher, log: log, timeout: timeout}
}

// GetNews는 GET /news
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	values := r.URL.Query()

	// 1. 조회 모드는 하나만 고른다
	query := SelectQuery(values)
	h.log.RecordRequest(query.Mode.String())

	// 2. 파라미터 -> 이번 요청 전용 설정
	opts, err := ParseOptions(values)
	if err != nil {
		h.fail(w, r, query.Mode.String(), err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	// 3. 조회
	articles, err := h.fetcher.Fetch(ctx, query, opts)
	if err != nil {
		h.fail(w, r, query.Mode.String(), err)
		return
	}
	if len(articles) == 0 {
		h.fail(w, r, query.Mode.String(), errNoResults)
		return
	}

	h.log.RecordSuccess(time.Since(start))
	h.log.WithRequest(r.Context()).WithFields(logrus.Fields{
		"mode":     query.Mode.String(),
		"term":     query.Term,
		"articles": len(articles),
	}).Debug("news fetched")

	writeJSON(w, http.StatusOK, articles)
}

func (h *NewsHandler) fail(w http.ResponseWriter, r *http.Request, mode string, err error) {
	apiErr := classify(err)
	h.log.RecordFailure(apiErr.Kind.String())

	entry := h.log.WithRequest(r.Context()).WithFields(logrus.Fields{
		"mode":  mode,
		"kind":  apiErr.Kind.String(),
		"param": apiErr.Param,
		"error": err.Error(),
	})
	if apiErr.Kind == KindUpstreamFailure {
		entry.Error("뉴스 데이터 가져오기 실패")
	} else {
		entry.Info("news request rejected")
	}

	writeJSON(w, apiErr.Status(), models.ErrorResponse{
		Error:   apiErr.Kind.String(),
		Message: message(apiErr),
		Param:   apiErr.Param,
	})
}

// 업스트림 에러 원문은 로그에만 남기고 응답에는 요약만 준다
func message(e *APIError) string {
	switch e.Kind {
	case KindUpstreamFailure:
		if e.Timeout {
			return "news source timed out"
		}
		return "news source is unavailable"
	default:
		return e.Err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
