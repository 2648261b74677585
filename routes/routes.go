package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mseongj/jiga-news/handlers"
	"github.com/mseongj/jiga-news/logger"
)

// SetupRoutes는 라우터에 CORS와 요청 로깅을 씌워서 돌려준다.
func SetupRoutes(news *handlers.NewsHandler, log *logger.Logger) http.Handler {
	router := mux.NewRouter()

	// API 라우트
	router.HandleFunc("/news", news.GetNews).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.Health(log)).Methods(http.MethodGet)

	return log.Middleware(enableCORS(router))
}
