package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForDB_RecoversAfterFailures(t *testing.T) {
	p := &flakyPinger{failures: 2}

	ok := WaitForDB(context.Background(), p, zap.NewNop())

	assert.True(t, ok)
	assert.Equal(t, 3, p.calls)
}

func TestWaitForDB_GivesUp(t *testing.T) {
	p := &flakyPinger{failures: 100}

	ok := WaitForDB(context.Background(), p, zap.NewNop())

	assert.False(t, ok)
	assert.Equal(t, defaultRetries+1, p.calls)
}

func TestWaitForDB_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &flakyPinger{failures: 100}

	assert.False(t, WaitForDB(ctx, p, zap.NewNop()))
	assert.LessOrEqual(t, p.calls, 1)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
