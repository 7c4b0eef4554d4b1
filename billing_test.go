package forgeseal

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestBillingUsage_Thresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		usage     BillingUsage
		warning   bool
		exhausted bool
		remaining float64
	}{
		{
			name:      "fresh account",
			usage:     BillingUsage{MinutesUsed: 0, IncludedMinutes: 2000},
			remaining: 2000,
		},
		{
			name:      "below warning",
			usage:     BillingUsage{MinutesUsed: 1000, IncludedMinutes: 2000},
			remaining: 1000,
		},
		{
			name:      "at warning",
			usage:     BillingUsage{MinutesUsed: 1600, IncludedMinutes: 2000},
			warning:   true,
			remaining: 400,
		},
		{
			name:      "at exhaustion",
			usage:     BillingUsage{MinutesUsed: 1900, IncludedMinutes: 2000},
			warning:   true,
			exhausted: true,
			remaining: 100,
		},
		{
			name:      "over included",
			usage:     BillingUsage{MinutesUsed: 2100, IncludedMinutes: 2000},
			warning:   true,
			exhausted: true,
			remaining: 0,
		},
		{
			name:  "no included minutes reported",
			usage: BillingUsage{MinutesUsed: 500, IncludedMinutes: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.usage.Warning(); got != tt.warning {
				t.Errorf("Warning() = %v, want %v", got, tt.warning)
			}
			if got := tt.usage.Exhausted(); got != tt.exhausted {
				t.Errorf("Exhausted() = %v, want %v", got, tt.exhausted)
			}
			if got := tt.usage.Remaining(); got != tt.remaining {
				t.Errorf("Remaining() = %v, want %v", got, tt.remaining)
			}
		})
	}
}

func TestActionsBilling(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octotest/settings/billing/actions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_minutes_used":1234.5,"included_minutes":2000}`))
	})
	client := newTestServer(t, mux)

	usage, err := client.ActionsBilling(context.Background())
	if err != nil {
		t.Fatalf("ActionsBilling() error = %v", err)
	}
	if usage.Login != "octotest" {
		t.Errorf("Login = %q, want octotest", usage.Login)
	}
	if usage.MinutesUsed != 1234.5 {
		t.Errorf("MinutesUsed = %v, want 1234.5", usage.MinutesUsed)
	}
	if usage.Warning() || usage.Exhausted() {
		t.Errorf("usage at 62%% flagged Warning=%v Exhausted=%v", usage.Warning(), usage.Exhausted())
	}
}

func TestActionsBilling_NotFound(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octotest/settings/billing/actions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message":"Not Found"}`))
	})
	client := newTestServer(t, mux)

	_, err := client.ActionsBilling(context.Background())
	if err == nil {
		t.Fatal("ActionsBilling() error = nil, want 404")
	}
	// A missing billing endpoint is not a missing repository.
	if errors.Is(err, ErrRepoNotFound) {
		t.Errorf("billing 404 = %v, matches ErrRepoNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("error = %#v, want *APIError with status 404", err)
	}
}
