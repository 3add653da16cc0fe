package employeeregistry

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Verifier decides whether an employee exists: cache first, then the remote
// registry (when configured), then the local fallback store.
type Verifier struct {
	cache    Cache
	remote   ExistenceSource
	timeout  time.Duration
	fallback ExistenceSource
	sf       *singleflight.Group
	logger   *zap.Logger
}

type Option func(*Verifier)

// WithRemote enables the remote registry step. Each lookup is bounded by timeout.
func WithRemote(src ExistenceSource, timeout time.Duration) Option {
	return func(v *Verifier) {
		v.remote = src
		if timeout > 0 {
			v.timeout = timeout
		}
	}
}

// WithCache replaces the default process-lifetime MemoryCache.
func WithCache(c Cache) Option {
	return func(v *Verifier) {
		if c != nil {
			v.cache = c
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger.Named("employeeregistry.verifier")
		}
	}
}

func NewVerifier(fallback ExistenceSource, opts ...Option) *Verifier {
	v := &Verifier{
		cache:    NewMemoryCache(),
		timeout:  DefaultRemoteTimeout,
		fallback: fallback,
		sf:       &singleflight.Group{},
		logger:   zap.L().Named("employeeregistry.verifier"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Exists never fails on registry trouble. It returns false only when a source
// said so, or when the fallback store itself is broken (logged, not cached).
func (v *Verifier) Exists(ctx context.Context, employeeID int64) bool {
	if exists, ok := v.cache.Get(ctx, employeeID); ok {
		return exists
	}

	// Concurrent misses for one id share a single lookup. The shared flight
	// must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	res, _, _ := v.sf.Do(strconv.FormatInt(employeeID, 10), func() (interface{}, error) {
		exists, resolved := v.resolve(flightCtx, employeeID)
		if resolved {
			v.cache.Set(flightCtx, employeeID, exists)
		}
		return exists, nil
	})
	return res.(bool)
}

func (v *Verifier) resolve(ctx context.Context, employeeID int64) (exists bool, resolved bool) {
	if v.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, v.timeout)
		exists, err := v.remote.Lookup(rctx, employeeID)
		cancel()
		if err == nil {
			v.logger.Debug("employee resolved by remote registry",
				zap.Int64("employee_id", employeeID),
				zap.Bool("exists", exists),
			)
			return exists, true
		}
		v.logger.Warn("employee registry unavailable, using fallback store",
			zap.Int64("employee_id", employeeID),
			zap.String("source", v.remote.Name()),
			zap.Error(err),
		)
	}

	exists, err := v.fallback.Lookup(ctx, employeeID)
	if err != nil {
		v.logger.Error("fallback employee store failed",
			zap.Int64("employee_id", employeeID),
			zap.String("source", v.fallback.Name()),
			zap.Error(err),
		)
		return false, false
	}
	v.logger.Debug("employee resolved by fallback store",
		zap.Int64("employee_id", employeeID),
		zap.Bool("exists", exists),
	)
	return exists, true
}
