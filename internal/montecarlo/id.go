package montecarlo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSimulationID mc_<unix-millis>_<9 hex chars>
// 충돌 가능성은 낮지만 0은 아님 (저장소에서 덮어씀)
func NewSimulationID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("mc_%d_%s", now.UnixMilli(), suffix[:9])
}
