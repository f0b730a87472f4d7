package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
	"github.com/wonny/finlab/backend/internal/simulation"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// SimulationHandler handles simulation and optimization endpoints
// ⭐ SSOT: 시뮬레이션 API 핸들러는 이 구조체에서만
type SimulationHandler struct {
	svc    *simulation.Service
	logger *logger.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(svc *simulation.Service, log *logger.Logger) *SimulationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulationHandler{
		svc:    svc,
		logger: log.WithComponent("api.simulation"),
	}
}

// CreateResponse POST 응답
type CreateResponse struct {
	SimulationID string            `json:"simulationId"`
	Status       montecarlo.Status `json:"status"`
}

// Create runs a simulation synchronously and returns its id
// POST /api/simulate, POST /api/simulations/monte-carlo
func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cfg montecarlo.SimulationConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondServiceError(w, h.logger, err, "Invalid simulation configuration", "Failed to run simulation")
		return
	}

	result, err := h.svc.RunSimulation(r.Context(), cfg)
	if err != nil {
		respondServiceError(w, h.logger, err, "Invalid simulation configuration", "Failed to run simulation")
		return
	}

	respondJSON(w, http.StatusOK, CreateResponse{
		SimulationID: result.ID,
		Status:       result.Status,
	})
}

// Get returns a stored result
// GET /api/simulate/{id}, GET /api/simulations/results/{id}
func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.svc.GetSimulation(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Invalid simulation id", "Failed to get simulation result")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// List returns all stored results
// GET /api/simulate, GET /api/simulations
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ListSimulations(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Invalid request", "Failed to get simulations")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// Delete removes a stored result
// DELETE /api/simulate/{id}
func (h *SimulationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteSimulation(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Invalid simulation id", "Failed to delete simulation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Optimize runs the portfolio optimizer
// POST /api/portfolio/optimize
func (h *SimulationHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var cfg portfolio.OptimizationConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondServiceError(w, h.logger, err, "Invalid optimization configuration", "Failed to optimize portfolio")
		return
	}

	result, err := h.svc.Optimize(r.Context(), cfg)
	if err != nil {
		respondServiceError(w, h.logger, err, "Invalid optimization configuration", "Failed to optimize portfolio")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
