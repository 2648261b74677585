package logger

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics는 요청 처리 통계를 메모리에 보관한다.
type Metrics struct {
	mu                  sync.RWMutex
	requestsTotal       int64
	requestsSucceeded   int64
	requestsFailed      int64
	processingTimeTotal time.Duration
	processingTimeCount int64
	requestsByMode      map[string]int64
	errorsByType        map[string]int64
	startTime           time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		requestsByMode: make(map[string]int64),
		errorsByType:   make(map[string]int64),
		startTime:      time.Now(),
	}
}

// RecordRequest는 조회 모드별 요청 수를 올린다.
func (l *Logger) RecordRequest(mode string) {
	l.metrics.mu.Lock()
	defer l.metrics.mu.Unlock()
	l.metrics.requestsTotal++
	l.metrics.requestsByMode[mode]++
}

func (l *Logger) RecordSuccess(duration time.Duration) {
	l.metrics.mu.Lock()
	defer l.metrics.mu.Unlock()
	l.metrics.requestsSucceeded++
	l.metrics.processingTimeTotal += duration
	l.metrics.processingTimeCount++
}

func (l *Logger) RecordFailure(errorType string) {
	l.metrics.mu.Lock()
	defer l.metrics.mu.Unlock()
	l.metrics.requestsFailed++
	l.metrics.errorsByType[errorType]++
}

// MetricsSnapshot은 특정 시점의 메트릭 복사본
type MetricsSnapshot struct {
	Service           string           `json:"service"`
	Uptime            string           `json:"uptime"`
	RequestsTotal     int64            `json:"requests_total"`
	RequestsSucceeded int64            `json:"requests_succeeded"`
	RequestsFailed    int64            `json:"requests_failed"`
	AvgProcessingTime string           `json:"avg_processing_time"`
	RequestsByMode    map[string]int64 `json:"requests_by_mode"`
	ErrorsByType      map[string]int64 `json:"errors_by_type"`
	SuccessRate       float64          `json:"success_rate_percent"`
}

func (l *Logger) GetMetrics() MetricsSnapshot {
	l.metrics.mu.RLock()
	defer l.metrics.mu.RUnlock()

	var avgProcessingTime time.Duration
	if l.metrics.processingTimeCount > 0 {
		avgProcessingTime = l.metrics.processingTimeTotal / time.Duration(l.metrics.processingTimeCount)
	}

	// 맵은 복사해서 넘긴다
	byMode := make(map[string]int64, len(l.metrics.requestsByMode))
	for k, v := range l.metrics.requestsByMode {
		byMode[k] = v
	}
	errorsByType := make(map[string]int64, len(l.metrics.errorsByType))
	for k, v := range l.metrics.errorsByType {
		errorsByType[k] = v
	}

	var successRate float64
	if l.metrics.requestsTotal > 0 {
		successRate = float64(l.metrics.requestsSucceeded) / float64(l.metrics.requestsTotal) * 100
	}

	return MetricsSnapshot{
		Service:           l.serviceName,
		Uptime:            time.Since(l.metrics.startTime).String(),
		RequestsTotal:     l.metrics.requestsTotal,
		RequestsSucceeded: l.metrics.requestsSucceeded,
		RequestsFailed:    l.metrics.requestsFailed,
		AvgProcessingTime: avgProcessingTime.String(),
		RequestsByMode:    byMode,
		ErrorsByType:      errorsByType,
		SuccessRate:       successRate,
	}
}

// LogMetrics는 현재 메트릭을 한 줄로 남긴다. 종료 직전에 호출된다.
func (l *Logger) LogMetrics() {
	m := l.GetMetrics()
	l.WithFields(logrus.Fields{
		"uptime":              m.Uptime,
		"requests_total":      m.RequestsTotal,
		"requests_succeeded":  m.RequestsSucceeded,
		"requests_failed":     m.RequestsFailed,
		"avg_processing_time": m.AvgProcessingTime,
		"requests_by_mode":    m.RequestsByMode,
		"errors_by_type":      m.ErrorsByType,
		"success_rate":        m.SuccessRate,
	}).Info("Metrics snapshot")
}
