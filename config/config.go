package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

type Config struct {
	Port            string
	GNewsBaseURL    string
	UserAgent       string
	UpstreamTimeout time.Duration
	LogLevel        string
}

func Load() *Config {
	// .env 파일을 한 번만 로드하도록 sync.Once 사용
	// 도커에서는 환경 변수가 직접 주입되므로 파일이 없어도 무시한다
	loadEnvOnce.Do(func() {
		_ = godotenv.Load(".env")
	})

	return &Config{
		Port:            getEnv("PORT", "5000"),
		GNewsBaseURL:    getEnv("GNEWS_BASE_URL", "https://news.google.com/rss"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (compatible; jiga-news/1.0)"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// 파싱에 실패하거나 0 이하이면 기본값 사용
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
