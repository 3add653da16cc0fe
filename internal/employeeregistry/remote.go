package employeeregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultRemoteTimeout = 5 * time.Second
	maxRemoteBody        = 1 << 20
)

// RemoteSource calls GET {baseURL}/employees/{id} on the Employee service.
type RemoteSource struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewRemoteSource(baseURL string, timeout time.Duration, logger ...*zap.Logger) *RemoteSource {
	l := zap.L().Named("employeeregistry.remote")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeeregistry.remote")
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

func (s *RemoteSource) Name() string { return "remote" }

type remoteEmployee struct {
	ID json.Number `json:"id"`
}

// Lookup maps 2xx with a matching id to true and 404 to false. Every other
// outcome, including a malformed body, is ErrRegistryUnavailable.
func (s *RemoteSource) Lookup(ctx context.Context, employeeID int64) (bool, error) {
	id := strconv.FormatInt(employeeID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/employees/"+id, nil)
	if err != nil {
		return false, fmt.Errorf("%w: build request: %v", ErrRegistryUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxRemoteBody))
		return false, nil
	case res.StatusCode >= 200 && res.StatusCode < 300:
		var body remoteEmployee
		if err := json.NewDecoder(io.LimitReader(res.Body, maxRemoteBody)).Decode(&body); err != nil {
			return false, fmt.Errorf("%w: decode body: %v", ErrRegistryUnavailable, err)
		}
		if body.ID.String() != id {
			s.logger.Warn("employee registry returned mismatching record",
				zap.Int64("employee_id", employeeID),
				zap.String("returned_id", body.ID.String()),
			)
			return false, fmt.Errorf("%w: record id %q does not match", ErrRegistryUnavailable, body.ID.String())
		}
		return true, nil
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxRemoteBody))
		return false, fmt.Errorf("%w: status %d", ErrRegistryUnavailable, res.StatusCode)
	}
}
