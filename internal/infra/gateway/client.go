package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra/resilience"
	"reservas-api/internal/pkg/errs"
)

const (
	StatusSuccess     = "SUCCESS"
	StatusFailed      = "FAILED"
	StatusTimeout     = "TIMEOUT"
	StatusCircuitOpen = "CIRCUIT_OPEN"
)

// Result is the total outcome of one provider dispatch. Adapters never return
// an error: every exit path maps to a Result.
type Result struct {
	Success         bool
	Status          string
	ResponsePayload reservation.Snapshot
}

var errNonSuccessStatus = errs.New("provider returned non-2xx status")

// providerClient is the shared transport core: retry envelopes the breaker,
// the breaker envelopes the POST, so a tripped breaker short-circuits the
// remaining retry attempts.
type providerClient struct {
	client  *http.Client
	retry   *resilience.RetryPolicy
	breaker *resilience.CircuitBreaker
	baseURL string
	path    string
	apiKey  string
}

func (c *providerClient) dispatch(ctx context.Context, body any) Result {
	encoded, err := json.Marshal(body)
	if err != nil {
		return failedResult(err)
	}

	var response reservation.Snapshot
	err = c.retry.Execute(ctx, func(ctx context.Context) error {
		return c.breaker.Call(ctx, func(ctx context.Context) error {
			payload, callErr := c.post(ctx, encoded)
			if callErr != nil {
				return callErr
			}
			response = payload
			return nil
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			return Result{Success: false, Status: StatusCircuitOpen}
		case isTimeout(err):
			return Result{Success: false, Status: StatusTimeout}
		default:
			return failedResult(err)
		}
	}

	return Result{
		Success:         true,
		Status:          statusLabel(response),
		ResponsePayload: response,
	}
}

func (c *providerClient) post(ctx context.Context, body []byte) (reservation.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "provider call failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.Wrapf(errNonSuccessStatus, "status %d", resp.StatusCode)
	}

	var payload reservation.Snapshot
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			// 2xx with an unparseable body still counts as delivered
			payload = reservation.Snapshot{"raw": string(raw)}
		}
	}
	return payload, nil
}

func statusLabel(payload reservation.Snapshot) string {
	if s, ok := payload["status"].(string); ok && s != "" {
		return strings.ToUpper(s)
	}
	return StatusSuccess
}

func failedResult(err error) Result {
	return Result{
		Success:         false,
		Status:          StatusFailed,
		ResponsePayload: reservation.Snapshot{"error": err.Error()},
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
