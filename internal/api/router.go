package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/finlab/backend/internal/api/handlers"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// RouterDeps 라우터 구성 요소
type RouterDeps struct {
	Simulations *handlers.SimulationHandler
	Health      *handlers.HealthHandler
	Events      http.Handler // WebSocket hub (nil이면 /api/ws 미등록)
	Limiter     Limiter      // 계산 엔드포인트 제한 (nil이면 무제한)
	Logger      *logger.Logger
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)

	// Health check
	r.HandleFunc("/health", deps.Health.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", deps.Health.Health).Methods("GET")
	api.HandleFunc("/models", handlers.ListModels).Methods("GET")

	// Compute endpoints (rate limited)
	limit := rateLimitMiddleware(deps.Limiter, log)
	sims := deps.Simulations
	api.Handle("/simulate", limit(http.HandlerFunc(sims.Create))).Methods("POST")
	api.Handle("/simulations/monte-carlo", limit(http.HandlerFunc(sims.Create))).Methods("POST")
	api.Handle("/portfolio/optimize", limit(http.HandlerFunc(sims.Optimize))).Methods("POST")

	// Session endpoints
	api.HandleFunc("/simulate", sims.List).Methods("GET")
	api.HandleFunc("/simulations", sims.List).Methods("GET")
	api.HandleFunc("/simulate/{id}", sims.Get).Methods("GET")
	api.HandleFunc("/simulations/results/{id}", sims.Get).Methods("GET")
	api.HandleFunc("/simulate/{id}", sims.Delete).Methods("DELETE")

	if deps.Events != nil {
		api.Handle("/ws", deps.Events).Methods("GET")
	}

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Not found")
}
