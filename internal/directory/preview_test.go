package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const previewPage = `<!DOCTYPE html>
<html><body>
<div class="tgme_page">
  <div class="tgme_page_title"><span dir="auto">Tech News</span><i class="verified-icon"></i></div>
  <div class="tgme_page_extra">52 300 subscribers</div>
  <div class="tgme_page_description">Новости технологий каждый день</div>
</div>
</body></html>`

func newTestPreview(t *testing.T, handler http.Handler) *PreviewResolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resolver := NewPreviewResolver(zap.NewNop())
	resolver.baseURL = server.URL
	return resolver
}

func TestPreviewResolve(t *testing.T) {
	resolver := newTestPreview(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/technews" {
			t.Errorf("path = %q, want /technews", r.URL.Path)
		}
		_, _ = w.Write([]byte(previewPage))
	}))

	profile, err := resolver.Resolve(context.Background(), "@technews")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if profile.Title != "Tech News" {
		t.Errorf("Title = %q, want Tech News", profile.Title)
	}
	if profile.Username != "technews" {
		t.Errorf("Username = %q, want technews", profile.Username)
	}
	if profile.About != "Новости технологий каждый день" {
		t.Errorf("About = %q", profile.About)
	}
	if profile.ParticipantsCount != 52300 {
		t.Errorf("ParticipantsCount = %d, want 52300", profile.ParticipantsCount)
	}
	if !profile.Verified {
		t.Error("Verified = false, want true")
	}
	if profile.ID >= 0 {
		t.Errorf("ID = %d, want negative synthetic ID", profile.ID)
	}
}

func TestPreviewResolveNotFound(t *testing.T) {
	resolver := newTestPreview(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := resolver.Resolve(context.Background(), "ghost")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want not-found kind", err)
	}
}

func TestPreviewResolveStructureChange(t *testing.T) {
	resolver := newTestPreview(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))

	_, err := resolver.Resolve(context.Background(), "technews")
	if !IsStructureError(err) {
		t.Errorf("error = %v, want structure-changed error", err)
	}
}

func TestParseSubscriberCount(t *testing.T) {
	tests := map[string]int{
		"52 300 subscribers":       52300,
		"1 234 members, 56 online": 1234,
		"9 subscribers":            9,
		"":                         0,
		"no digits at all":         0,
	}
	for input, want := range tests {
		if got := parseSubscriberCount(input); got != want {
			t.Errorf("parseSubscriberCount(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestSyntheticIDStableAndNegative(t *testing.T) {
	a := syntheticID("TechNews")
	b := syntheticID("technews")
	if a != b {
		t.Error("synthetic ID must be case-insensitive stable")
	}
	if a >= 0 {
		t.Errorf("synthetic ID = %d, want negative", a)
	}
	if syntheticID("othernews") == a {
		t.Error("different handles produced the same synthetic ID")
	}
}
