package broadcast

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/platform/resilience"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_PublishInjury_SendsExpectedRequest(t *testing.T) {
	var gotPath, gotAuth, gotDedup, gotJobToken, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDedup = r.Header.Get("X-Relay-Deduplication-Id")
		gotJobToken = r.Header.Get("X-Internal-Job-Token")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	publisher := NewPublisher(Config{
		BaseURL:          server.URL,
		Token:            "relay-token",
		InternalJobToken: "job-token",
		Timeout:          2 * time.Second,
	}, testLogger())

	item := injury.Injury{
		ID:                   "inj-001",
		GameID:               "vbl-2026-final",
		SetID:                "set-1",
		TeamID:               "vbc-harbor",
		ProfileID:            "hrb-02",
		ReplacementProfileID: "hrb-07",
		Description:          "rolled ankle on landing",
	}
	if err := publisher.PublishInjury(t.Context(), item); err != nil {
		t.Fatalf("publish injury failed: %v", err)
	}

	if gotPath != "/relay/injuries" {
		t.Fatalf("expected path /relay/injuries, got %s", gotPath)
	}
	if gotAuth != "Bearer relay-token" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotDedup != "inj-001" {
		t.Fatalf("expected injury id as deduplication id, got %s", gotDedup)
	}
	if gotJobToken != "job-token" {
		t.Fatalf("expected internal job token forwarded, got %q", gotJobToken)
	}
	if !strings.Contains(gotBody, "hrb-07") {
		t.Fatalf("expected payload to carry the replacement, got %s", gotBody)
	}
}

func TestPublisher_Publish_NonRetryableStatusIsNotTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewPublisher(Config{BaseURL: server.URL, Token: "t"}, testLogger())

	err := publisher.Publish(t.Context(), "/relay/sanctions", map[string]string{"id": "snc-1"}, "snc-1")
	if err == nil {
		t.Fatalf("expected error on 400 response")
	}
	if errors.Is(err, errRelayTransient) {
		t.Fatalf("4xx responses must not count as transient: %v", err)
	}
}

func TestPublisher_Publish_CircuitOpensOnRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "relay overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewPublisher(Config{
		BaseURL: server.URL,
		Token:   "t",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, testLogger())

	for i := 0; i < 2; i++ {
		err := publisher.Publish(t.Context(), "/relay/sanctions", nil, "")
		if !errors.Is(err, errRelayTransient) {
			t.Fatalf("expected transient failure %d, got %v", i, err)
		}
	}

	err := publisher.Publish(t.Context(), "/relay/sanctions", nil, "")
	if err == nil || errors.Is(err, errRelayTransient) {
		t.Fatalf("expected circuit rejection before any request, got %v", err)
	}
}

func TestPublisher_Publish_RejectsBadBaseURL(t *testing.T) {
	publisher := NewPublisher(Config{BaseURL: "ftp://relay.local"}, testLogger())

	if err := publisher.Publish(t.Context(), "/relay/injuries", nil, ""); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
