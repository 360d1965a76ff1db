package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/internal/tgate"
	"go.uber.org/zap"
)

func newTestDirectory(t *testing.T, handler http.Handler) (*GatewayDirectory, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := tgate.NewClient(server.URL, zap.NewNop())
	return NewGatewayDirectory(client, nil, nil, zap.NewNop()), server
}

func TestResolveProfileStripsAtSign(t *testing.T) {
	var gotUsername string
	dir, _ := newTestDirectory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tgate.ResolveRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotUsername = req.Username

		username := "technews"
		participants := 50000
		_ = json.NewEncoder(w).Encode(tgate.ResolveResponse{
			Channel: &tgate.ChannelRaw{
				ID:                10,
				Title:             "Tech News",
				Username:          &username,
				ParticipantsCount: &participants,
			},
		})
	}))

	profile, err := dir.ResolveProfile(context.Background(), "@technews")
	if err != nil {
		t.Fatalf("ResolveProfile() error: %v", err)
	}
	if gotUsername != "technews" {
		t.Errorf("gateway received username %q, want %q", gotUsername, "technews")
	}
	if profile.ID != 10 || profile.Title != "Tech News" || profile.ParticipantsCount != 50000 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestResolveProfileNotFound(t *testing.T) {
	dir, _ := newTestDirectory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := dir.ResolveProfile(context.Background(), "ghost")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want not-found kind", err)
	}
}

func TestSampleParticipantsFiltersBots(t *testing.T) {
	dir, _ := newTestDirectory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tgate.ParticipantsResponse{
			Participants: []tgate.ParticipantRaw{
				{UserID: 1, Bot: false},
				{UserID: 2, Bot: true},
				{UserID: 3, Bot: false},
			},
		})
	}))

	ids, err := dir.SampleParticipants(context.Background(), &domain.ChannelProfile{ID: 10}, 50)
	if err != nil {
		t.Fatalf("SampleParticipants() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}

func TestSampleParticipantsPermissionDenied(t *testing.T) {
	dir, _ := newTestDirectory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := dir.SampleParticipants(context.Background(), &domain.ChannelProfile{ID: 10}, 50)
	if !IsPermissionDenied(err) {
		t.Errorf("error = %v, want permission-denied kind", err)
	}
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	dir, _ := newTestDirectory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := dir.SearchByKeyword(context.Background(), "новости", 20)
	if !IsTransient(err) {
		t.Fatalf("error = %v, want transient kind", err)
	}
	if calls != 3 {
		t.Errorf("gateway calls = %d, want 3 (retry budget)", calls)
	}

	// The breaker is now open: the next call must not reach the gateway.
	_, err = dir.SearchByKeyword(context.Background(), "новости", 20)
	if err == nil {
		t.Fatal("expected circuit-open error")
	}
	if calls != 3 {
		t.Errorf("gateway calls after open circuit = %d, want still 3", calls)
	}
}

func TestIsTransientUnclassified(t *testing.T) {
	if !IsTransient(context.DeadlineExceeded) {
		t.Error("IsTransient() = false for unclassified error, want true")
	}
	if IsTransient(nil) {
		t.Error("IsTransient(nil) = true, want false")
	}
}
