package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leave-service/internal/employeeregistry"
	"leave-service/internal/events"
	"leave-service/internal/notifier"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func sinkNames(sinks []notifier.Sink) []string {
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	return names
}

func TestBuildSinks(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	t.Run("log mode audits only", func(t *testing.T) {
		sinks, closers, err := buildSinks(Config{NotifierMode: NotifierLog}, db, zap.NewNop())
		assert.NoError(t, err)
		assert.Empty(t, closers)
		assert.Equal(t, []string{"audit"}, sinkNames(sinks))
	})

	t.Run("outbox mode leaves auditing to the consumer", func(t *testing.T) {
		sinks, _, err := buildSinks(Config{NotifierMode: NotifierOutbox}, db, zap.NewNop())
		assert.NoError(t, err)
		assert.Equal(t, []string{"outbox"}, sinkNames(sinks))
	})
}

func setupRouter(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	verifier := employeeregistry.NewVerifier(employeeregistry.NewLocalSource(gormDB))
	r := gin.New()
	registerModules(r, cfg, db, gormDB, nil, verifier, notifier.NewDispatcher(1, nil), zap.NewNop())
	return r
}

func TestRegisterModules(t *testing.T) {
	base := Config{RateLimitRPS: 100, RateLimitBurst: 100}

	t.Run("healthz", func(t *testing.T) {
		r := setupRouter(t, base)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})

	t.Run("leave routes require token when secret set", func(t *testing.T) {
		cfg := base
		cfg.JWTSecret = "secret"
		r := setupRouter(t, cfg)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create validates body before touching storage", func(t *testing.T) {
		r := setupRouter(t, base)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves", strings.NewReader(`{"leave_type":"annual"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

type countingSink struct {
	delivered []events.LeaveEvent
}

func (s *countingSink) Name() string { return "counting" }

func (s *countingSink) Deliver(ctx context.Context, event events.LeaveEvent) error {
	s.delivered = append(s.delivered, event)
	return nil
}

func TestAppShutdown_FlushesNotifierAfterRequests(t *testing.T) {
	sink := &countingSink{}
	d := notifier.NewDispatcher(4, []notifier.Sink{sink}, zap.NewNop())
	d.Start()

	closed := false
	a := &App{
		Notifier: d,
		logger:   zap.NewNop(),
		closers:  []func() error{func() error { closed = true; return nil }},
	}

	// raised by a request that was still in flight when the signal arrived
	assert.NoError(t, d.Notify(context.Background(), events.LeaveEvent{EventType: events.LeaveApproved, LeaveID: "l1"}))

	a.Shutdown(context.Background())

	assert.Len(t, sink.delivered, 1)
	assert.True(t, closed)
	assert.ErrorIs(t, d.Notify(context.Background(), events.LeaveEvent{LeaveID: "late"}), notifier.ErrStopped)
}
