package bootstrap_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"leave-service/internal/audit"
	"leave-service/internal/bootstrap"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recordingAuditLogger struct {
	mu      sync.Mutex
	entries []audit.AuditLog
}

func (l *recordingAuditLogger) Log(ctx context.Context, entry audit.AuditLog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func TestRunHTTPServer_GracefulShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	auditLogger := &recordingAuditLogger{}
	hookCalled := false

	done := make(chan error, 1)
	go func() {
		done <- bootstrap.RunHTTPServer(ctx, gin.New(), bootstrap.ServerConfig{Port: "0"}, auditLogger,
			func(context.Context) { hookCalled = true })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.True(t, hookCalled)
	assert.Len(t, auditLogger.entries, 1)
	assert.Equal(t, "SERVER_SHUTDOWN", auditLogger.entries[0].Action)
}
