package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/umurima-rw/umurima/internal/domain"
)

func TestPushDeliversFarmer(t *testing.T) {
	var mu sync.Mutex
	var gotPath string
	var gotPhone string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var farmer domain.Farmer
		if err := json.NewDecoder(r.Body).Decode(&farmer); err != nil {
			t.Errorf("decode pushed farmer: %v", err)
		}
		mu.Lock()
		gotPath = r.URL.Path
		gotPhone = farmer.Phone
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL)
	n.push("/sync/farmers", &domain.Farmer{Phone: "+250780000001", Name: "Jean"})

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/sync/farmers" {
		t.Errorf("Expected /sync/farmers, got %q", gotPath)
	}
	if gotPhone != "+250780000001" {
		t.Errorf("Expected pushed phone, got %q", gotPhone)
	}
}

func TestPushSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL)
	// Must not panic or block; failures are logged and dropped.
	n.push("/sync/requests", &domain.ServiceRequest{ID: "r1", Status: domain.StatusNoMatch})
}

func TestPushSwallowsConnectionErrors(t *testing.T) {
	n := NewHTTPNotifier("http://127.0.0.1:1")
	n.push("/sync/farmers", &domain.Farmer{Phone: "+250780000001"})
}

func TestFireAndForgetReturnsImmediately(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	n := NewHTTPNotifier(srv.URL)

	start := time.Now()
	n.FarmerSaved(&domain.Farmer{Phone: "+250780000001"})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("FarmerSaved blocked for %v", elapsed)
	}
}
