package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Logger는 logrus 위에 서비스 이름과 요청 메트릭을 얹은 래퍼입니다.
type Logger struct {
	*logrus.Logger
	serviceName string
	metrics     *Metrics
}

// NewLogger는 JSON 포맷의 구조화 로거를 만든다.
func NewLogger(serviceName, level string) *Logger {
	return newLogger(serviceName, level, os.Stdout)
}

func newLogger(serviceName, level string, out io.Writer) *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	switch strings.ToUpper(level) {
	case "DEBUG":
		log.SetLevel(logrus.DebugLevel)
	case "WARN":
		log.SetLevel(logrus.WarnLevel)
	case "ERROR":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	log.SetOutput(out)

	return &Logger{
		Logger:      log,
		serviceName: serviceName,
		metrics:     NewMetrics(),
	}
}

// Discard는 테스트용으로 아무것도 출력하지 않는 로거를 반환한다.
func Discard() *Logger {
	return newLogger("test", "ERROR", io.Discard)
}

// ServiceName은 로그와 헬스 응답에 쓰이는 서비스 이름
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// WithRequest는 컨텍스트에 담긴 request_id를 필드로 붙인다.
func (l *Logger) WithRequest(ctx context.Context) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"service":    l.serviceName,
		"request_id": RequestID(ctx),
	})
}

// WithError는 에러를 필드로 붙인다.
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"service": l.serviceName,
		"error":   err.Error(),
	})
}

// RequestID는 미들웨어가 심어 둔 요청 ID를 꺼낸다. 없으면 빈 문자열.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
