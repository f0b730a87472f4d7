package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/session"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// maxBodyBytes 요청 본문 상한
const maxBodyBytes = 1 << 20

// ErrorResponse 오류 응답 본문
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondJSON 본문을 먼저 직렬화한 뒤 상태 코드 기록
// 직렬화 실패 시 200 + 빈 본문 대신 500
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "Internal server error", Details: "response encoding failed"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// decodeJSON 본문을 dst로 디코딩. 알 수 없는 필드는 무시
func decodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &montecarlo.ValidationError{Field: "body", Message: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}

// respondServiceError 서비스 오류를 HTTP 상태로 매핑
// invalidMessage: 검증 실패 시 사용자에게 보여줄 문구
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error, invalidMessage, failMessage string) {
	var verr *montecarlo.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   invalidMessage,
			Field:   verr.Field,
			Details: verr.Message,
		})
	case errors.Is(err, montecarlo.ErrInvalidConfig):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: invalidMessage, Details: err.Error()})
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "Simulation not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("Request cancelled")
		respondError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		log.WithError(err).Error(failMessage)
		respondError(w, http.StatusInternalServerError, failMessage)
	}
}
