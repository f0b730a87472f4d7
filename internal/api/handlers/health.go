package handlers

import (
	"context"
	"net/http"
	"time"
)

// StoreCounter reports the number of stored results
type StoreCounter interface {
	StoredCount(ctx context.Context) (int, error)
}

// HealthHandler reports service health
type HealthHandler struct {
	store   StoreCounter
	backend string
	clients func() int
	started time.Time
}

// NewHealthHandler creates a new health handler
// clients는 WebSocket 연결 수 (nil 허용)
func NewHealthHandler(store StoreCounter, backend string, clients func() int) *HealthHandler {
	if clients == nil {
		clients = func() int { return 0 }
	}
	return &HealthHandler{
		store:   store,
		backend: backend,
		clients: clients,
		started: time.Now(),
	}
}

// HealthResponse 헬스 체크 응답
type HealthResponse struct {
	Status            string            `json:"status"`
	Timestamp         string            `json:"timestamp"`
	Services          map[string]string `json:"services"`
	SessionBackend    string            `json:"sessionBackend"`
	StoredSimulations int               `json:"storedSimulations"`
	WebSocketClients  int               `json:"websocketClients"`
	Uptime            string            `json:"uptime"`
}

// Health returns service status
// GET /api/health, GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Services: map[string]string{
			"monte_carlo":            "operational",
			"portfolio_optimization": "operational",
			"session_store":          "operational",
		},
		SessionBackend:   h.backend,
		WebSocketClients: h.clients(),
		Uptime:           time.Since(h.started).Round(time.Second).String(),
	}

	status := http.StatusOK
	count, err := h.store.StoredCount(ctx)
	if err != nil {
		resp.Status = "degraded"
		resp.Services["session_store"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	resp.StoredSimulations = count

	respondJSON(w, status, resp)
}
