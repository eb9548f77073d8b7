package app

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

func TestRequestPrintsResultAndJournals(t *testing.T) {
	api := newAPIServer(t)
	cfg := testConfig(t, api.URL)
	cfg.JournalType = "bbolt"
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.db")

	var out bytes.Buffer
	if err := Request(context.Background(), cfg, nil, apiclient.Request{Endpoint: "/profile"}, &out); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !strings.Contains(out.String(), `"name": "asha"`) {
		t.Fatalf("unexpected output %q", out.String())
	}

	err := Request(context.Background(), cfg, nil, apiclient.Request{Endpoint: "/nope", Method: http.MethodDelete}, &out)
	if err == nil || err.Error() != "not found" {
		t.Fatalf("expected not found, got %v", err)
	}

	var hist bytes.Buffer
	if err := History(cfg, nil, 10, &hist); err != nil {
		t.Fatalf("History: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(hist.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 history lines, got %q", hist.String())
	}
	if !strings.Contains(hist.String(), "/nope failed: not found") || !strings.Contains(hist.String(), "/profile ok") {
		t.Fatalf("unexpected history %q", hist.String())
	}
}
