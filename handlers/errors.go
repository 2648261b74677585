package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/mseongj/jiga-news/gnews"
)

// ErrorKind는 /news 실패 분류
type ErrorKind int

const (
	KindInvalidParameter ErrorKind = iota
	KindUpstreamFailure
	KindNoResults
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindUpstreamFailure:
		return "upstream_failure"
	default:
		return "no_results"
	}
}

// APIError는 HTTP 응답으로 바꿀 수 있는 에러
type APIError struct {
	Kind    ErrorKind
	Param   string
	Timeout bool
	Err     error
}

func (e *APIError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Status는 분류별 HTTP 상태 코드
func (e *APIError) Status() int {
	switch e.Kind {
	case KindInvalidParameter:
		return http.StatusBadRequest
	case KindUpstreamFailure:
		if e.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusNotFound
	}
}

func invalidParam(param string, err error) *APIError {
	return &APIError{Kind: KindInvalidParameter, Param: param, Err: err}
}

var errNoResults = &APIError{Kind: KindNoResults, Err: errors.New("no news matched the query")}

// classify는 조회 함수가 돌려준 에러를 APIError로 바꾼다.
func classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, gnews.ErrUnknownTopic) {
		return invalidParam("topic", err)
	}
	return &APIError{Kind: KindUpstreamFailure, Timeout: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
