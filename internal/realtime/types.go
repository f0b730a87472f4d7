package realtime

import "time"

// EventType 이벤트 종류
type EventType string

const (
	EventSimulationCompleted EventType = "simulation.completed"
	EventSimulationDeleted   EventType = "simulation.deleted"
	EventSessionsEvicted     EventType = "sessions.evicted"
)

// Event WebSocket으로 전달되는 메시지
// ⭐ SSOT: 실시간 이벤트 구조
type Event struct {
	Type         EventType   `json:"type"`
	SimulationID string      `json:"simulationId,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Data         interface{} `json:"data,omitempty"`
}

// CompletedSummary simulation.completed 이벤트 요약
type CompletedSummary struct {
	SimulationType    string  `json:"simulationType"`
	Iterations        int     `json:"iterations"`
	ExpectedValue     float64 `json:"expectedValue"`
	VaR               float64 `json:"var"`
	ProbabilityOfLoss float64 `json:"probabilityOfLoss"`
	Duration          int64   `json:"duration"`
}

// Publisher 이벤트 발행 인터페이스
type Publisher interface {
	Publish(event Event)
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(Event) {}
