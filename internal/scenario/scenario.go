package scenario

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
)

// Scenario YAML 시나리오 파일
// simulation, optimization 중 하나 이상 필요
type Scenario struct {
	Meta         Meta                          `yaml:"meta" json:"meta"`
	Simulation   *montecarlo.SimulationConfig  `yaml:"simulation,omitempty" json:"simulation,omitempty"`
	Optimization *portfolio.OptimizationConfig `yaml:"optimization,omitempty" json:"optimization,omitempty"`
}

// Meta 시나리오 식별 정보
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Load reads a scenario file and returns it with the raw bytes
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func Load(path string) (*Scenario, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return s, data, nil
}

// Parse decodes and validates scenario YAML
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate applies the same request bounds as the HTTP API
func (s *Scenario) Validate() error {
	if s.Meta.Name == "" {
		return &montecarlo.ValidationError{Field: "meta.name", Message: "required"}
	}
	if s.Simulation == nil && s.Optimization == nil {
		return &montecarlo.ValidationError{Field: "scenario", Message: "simulation or optimization section required"}
	}

	if s.Simulation != nil {
		if err := s.Simulation.ValidateBounds(montecarlo.DefaultBounds()); err != nil {
			return fmt.Errorf("simulation.%w", err)
		}
	}
	if s.Optimization != nil {
		if err := s.Optimization.ValidateBounds(); err != nil {
			return fmt.Errorf("optimization.%w", err)
		}
	}
	return nil
}

// Hash SHA256 of the canonical JSON form (struct field order is stable)
func Hash(s *Scenario) (string, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
