package employeeregistry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"leave-service/internal/employeeregistry"
	registryMock "leave-service/internal/employeeregistry/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type verifierDeps struct {
	cache    *employeeregistry.MemoryCache
	remote   *registryMock.MockExistenceSource
	fallback *registryMock.MockExistenceSource
	verifier *employeeregistry.Verifier
}

func setupVerifierTest(t *testing.T, withRemote bool) *verifierDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &verifierDeps{
		cache:    employeeregistry.NewMemoryCache(),
		remote:   registryMock.NewMockExistenceSource(ctrl),
		fallback: registryMock.NewMockExistenceSource(ctrl),
	}
	deps.remote.EXPECT().Name().Return("remote").AnyTimes()
	deps.fallback.EXPECT().Name().Return("local").AnyTimes()

	opts := []employeeregistry.Option{employeeregistry.WithCache(deps.cache)}
	if withRemote {
		opts = append(opts, employeeregistry.WithRemote(deps.remote, time.Second))
	}
	deps.verifier = employeeregistry.NewVerifier(deps.fallback, opts...)
	return deps
}

func TestVerifier_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips every source", func(t *testing.T) {
		deps := setupVerifierTest(t, true)
		deps.cache.Set(ctx, 1, true)

		assert.True(t, deps.verifier.Exists(ctx, 1))
	})

	t.Run("remote found is cached", func(t *testing.T) {
		deps := setupVerifierTest(t, true)
		deps.remote.EXPECT().Lookup(gomock.Any(), int64(1)).Return(true, nil).Times(1)

		assert.True(t, deps.verifier.Exists(ctx, 1))
		assert.True(t, deps.verifier.Exists(ctx, 1))

		exists, ok := deps.cache.Get(ctx, 1)
		assert.True(t, ok)
		assert.True(t, exists)
	})

	t.Run("remote not found is authoritative", func(t *testing.T) {
		deps := setupVerifierTest(t, true)
		deps.remote.EXPECT().Lookup(gomock.Any(), int64(99999)).Return(false, nil).Times(1)

		assert.False(t, deps.verifier.Exists(ctx, 99999))

		exists, ok := deps.cache.Get(ctx, 99999)
		assert.True(t, ok)
		assert.False(t, exists)
	})

	t.Run("remote unavailable falls back and caches fallback answer", func(t *testing.T) {
		deps := setupVerifierTest(t, true)
		gomock.InOrder(
			deps.remote.EXPECT().Lookup(gomock.Any(), int64(7)).
				Return(false, fmt.Errorf("%w: status 503", employeeregistry.ErrRegistryUnavailable)),
			deps.fallback.EXPECT().Lookup(gomock.Any(), int64(7)).Return(true, nil),
		)

		assert.True(t, deps.verifier.Exists(ctx, 7))

		exists, ok := deps.cache.Get(ctx, 7)
		assert.True(t, ok)
		assert.True(t, exists)
	})

	t.Run("absent everywhere caches false", func(t *testing.T) {
		deps := setupVerifierTest(t, true)
		deps.remote.EXPECT().Lookup(gomock.Any(), int64(99999)).Return(false, employeeregistry.ErrRegistryUnavailable)
		deps.fallback.EXPECT().Lookup(gomock.Any(), int64(99999)).Return(false, nil)

		assert.False(t, deps.verifier.Exists(ctx, 99999))
		assert.False(t, deps.verifier.Exists(ctx, 99999))
		assert.Equal(t, 1, deps.cache.Len())
	})

	t.Run("fallback failure is not cached", func(t *testing.T) {
		deps := setupVerifierTest(t, false)
		deps.fallback.EXPECT().Lookup(gomock.Any(), int64(3)).Return(false, errors.New("connection refused")).Times(1)
		deps.fallback.EXPECT().Lookup(gomock.Any(), int64(3)).Return(true, nil).Times(1)

		assert.False(t, deps.verifier.Exists(ctx, 3))
		assert.Equal(t, 0, deps.cache.Len())

		assert.True(t, deps.verifier.Exists(ctx, 3))
	})

	t.Run("no remote configured goes straight to fallback", func(t *testing.T) {
		deps := setupVerifierTest(t, false)
		deps.fallback.EXPECT().Lookup(gomock.Any(), int64(5)).Return(true, nil).Times(1)

		assert.True(t, deps.verifier.Exists(ctx, 5))
	})
}

func TestVerifier_RemoteTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	fallback := registryMock.NewMockExistenceSource(ctrl)
	fallback.EXPECT().Name().Return("local").AnyTimes()
	fallback.EXPECT().Lookup(gomock.Any(), int64(1)).Return(true, nil).Times(1)

	cache := employeeregistry.NewMemoryCache()
	remote := employeeregistry.NewRemoteSource(srv.URL, 50*time.Millisecond)
	v := employeeregistry.NewVerifier(fallback,
		employeeregistry.WithCache(cache),
		employeeregistry.WithRemote(remote, 50*time.Millisecond),
	)

	start := time.Now()
	assert.True(t, v.Exists(context.Background(), 1))
	assert.Less(t, time.Since(start), time.Second)

	exists, ok := cache.Get(context.Background(), 1)
	assert.True(t, ok)
	assert.True(t, exists)
}

func TestVerifier_ConcurrentMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := registryMock.NewMockExistenceSource(ctrl)
	fallback.EXPECT().Name().Return("local").AnyTimes()
	fallback.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id int64) (bool, error) {
			time.Sleep(5 * time.Millisecond)
			return id%2 == 0, nil
		}).
		MinTimes(1)

	cache := employeeregistry.NewMemoryCache()
	v := employeeregistry.NewVerifier(fallback, employeeregistry.WithCache(cache))

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.Equal(t, id%2 == 0, v.Exists(context.Background(), id))
		}(int64(i % 8))
	}
	wg.Wait()

	assert.Equal(t, 8, cache.Len())
}
