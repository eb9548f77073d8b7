package apiclient

import (
	"net/http"
	"testing"
)

func TestRequestKeyStructuralPayloadEquality(t *testing.T) {
	a := Request{Endpoint: "/items", Method: "post", Payload: map[string]any{"b": 2, "a": 1}}
	b := Request{Endpoint: "/items", Method: http.MethodPost, Payload: map[string]any{"a": 1, "b": 2}}

	ka, err := a.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	kb, err := b.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if ka != kb {
		t.Fatalf("expected equal keys, got %s vs %s", ka, kb)
	}
}

func TestRequestKeyDistinguishesFields(t *testing.T) {
	base := Request{Endpoint: "/items"}
	variants := []Request{
		{Endpoint: "/items/5"},
		{Endpoint: "/items", Method: http.MethodDelete},
		{Endpoint: "/items", Payload: []int{1}},
	}

	baseKey, err := base.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	for _, v := range variants {
		k, err := v.Key()
		if err != nil {
			t.Fatalf("Key(%+v): %v", v, err)
		}
		if k == baseKey {
			t.Fatalf("expected %+v to differ from base key", v)
		}
	}
}

func TestRequestKeyIgnoresHeaders(t *testing.T) {
	a := Request{Endpoint: "/x", Headers: map[string]string{"X-A": "1"}}
	b := Request{Endpoint: "/x"}
	ka, _ := a.Key()
	kb, _ := b.Key()
	if ka != kb {
		t.Fatalf("headers must not change the key")
	}
}

func TestNormalizedMethodDefaultsToGet(t *testing.T) {
	m, err := Request{}.NormalizedMethod()
	if err != nil || m != http.MethodGet {
		t.Fatalf("expected GET, got %q err=%v", m, err)
	}
	if _, err := (Request{Method: "connect"}).NormalizedMethod(); err == nil {
		t.Fatalf("expected error for unsupported method")
	}
}

func TestMergeHeadersCanonicalizesOverrides(t *testing.T) {
	h := mergeHeaders(map[string]string{"content-type": "text/csv", " ": "skip"})
	if h["Content-Type"] != "text/csv" {
		t.Fatalf("expected override, got %#v", h)
	}
	if len(h) != 1 {
		t.Fatalf("expected blank header names dropped, got %#v", h)
	}
}

func TestBaseURL(t *testing.T) {
	if got := BaseURL("http://host:8080/", ""); got != "http://host:8080/api" {
		t.Fatalf("unexpected base url %s", got)
	}
	if got := BaseURL("", "/v2"); got != "/v2" {
		t.Fatalf("unexpected base url %s", got)
	}
}
