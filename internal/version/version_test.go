package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0.3.0", "0.3.0", 0},
		{"0.3.0", "0.4.0", -1},
		{"v1.2.10", "1.2.9", 1},
		{"1.2", "1.2.1", -1},
		{"2.0.0", "10.0.0", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	old := Version
	Version = "0.3.0"
	t.Cleanup(func() { Version = old })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/"+GitHubRepo+"/releases/latest" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "freeslots/0.3.0" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"v0.4.1","html_url":"https://example.test/r","body":"Faster sweeps\nmore text"}`))
	}))
	defer srv.Close()

	info, err := Check(context.Background(), srv.Client(), srv.URL+"/")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !info.UpdateAvailable || info.LatestVersion != "0.4.1" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.ReleaseNotes != "Faster sweeps" {
		t.Errorf("unexpected notes %q", info.ReleaseNotes)
	}
}

func TestCheck_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Check(context.Background(), srv.Client(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestTruncateNotes(t *testing.T) {
	long := strings.Repeat("x", 250)
	if got := truncateNotes(long, 200); len(got) != 200 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation: len=%d", len(got))
	}
}
