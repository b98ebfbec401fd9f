// Package bridge pushes newly committed records to the companion web API.
//
// The push is strictly fire-and-forget: it runs off the request goroutine
// with its own deadline, and failures are logged and dropped. A USSD turn
// must never block on, or fail because of, the sync path.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/umurima-rw/umurima/internal/domain"
)

const pushTimeout = 3 * time.Second

// Notifier receives records after a successful local commit.
type Notifier interface {
	FarmerSaved(farmer *domain.Farmer)
	RequestCreated(req *domain.ServiceRequest)
}

// HTTPNotifier posts JSON records to the companion API.
type HTTPNotifier struct {
	baseURL string
	http    *http.Client
}

// NewHTTPNotifier creates a notifier targeting the companion API base URL.
func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		http:    &http.Client{Timeout: pushTimeout},
	}
}

// FarmerSaved pushes a created or updated farmer record.
func (n *HTTPNotifier) FarmerSaved(farmer *domain.Farmer) {
	go n.push("/sync/farmers", farmer)
}

// RequestCreated pushes a newly created service request.
func (n *HTTPNotifier) RequestCreated(req *domain.ServiceRequest) {
	go n.push("/sync/requests", req)
}

func (n *HTTPNotifier) push(path string, record interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	body, err := json.Marshal(record)
	if err != nil {
		slog.Warn("Sync push failed to encode record", "path", path, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		slog.Warn("Sync push failed to build request", "path", path, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		slog.Warn("Sync push failed", "path", path, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Sync push rejected", "path", path, "status", resp.StatusCode)
		return
	}
	slog.Debug("Sync push delivered", "path", path)
}

// Noop discards all notifications; used when no sync target is configured.
type Noop struct{}

// FarmerSaved discards the record.
func (Noop) FarmerSaved(*domain.Farmer) {}

// RequestCreated discards the record.
func (Noop) RequestCreated(*domain.ServiceRequest) {}
