package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEvicter struct {
	count int
	err   error
	calls int
}

func (f *fakeEvicter) EvictExpired(context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

func TestSessionCleanupJob(t *testing.T) {
	ev := &fakeEvicter{count: 3}
	job := NewSessionCleanupJob(ev, "", nil)

	assert.Equal(t, "session_cleanup", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, ev.calls)

	failing := NewSessionCleanupJob(&fakeEvicter{err: errors.New("db down")}, "@hourly", nil)
	assert.Equal(t, "@hourly", failing.Schedule())
	assert.Error(t, failing.Run(context.Background()))
}
