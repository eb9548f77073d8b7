package registryfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type doc struct {
	Items []struct {
		ID   string `json:"id" yaml:"id"`
		Size int    `json:"size" yaml:"size"`
	} `json:"items" yaml:"items"`
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadByExtension(t *testing.T) {
	cases := map[string]string{
		"items.yaml": "items:\n  - id: a\n    size: 2\n",
		"items.yml":  "items:\n  - id: a\n    size: 2\n",
		"items.JSON": `{"items":[{"id":"a","size":2}]}`,
		"items":      `{"items":[{"id":"a","size":2}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			var d doc
			if err := Load(write(t, name, content), "items", &d); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(d.Items) != 1 || d.Items[0].ID != "a" || d.Items[0].Size != 2 {
				t.Fatalf("unexpected result %+v", d)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	var d doc
	if err := Load("  ", "views", &d); err == nil || err.Error() != "views file path is empty" {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "views", &d); err == nil || !strings.HasPrefix(err.Error(), "read views file") {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Load(write(t, "bad.json", "{"), "sinks", &d); err == nil || !strings.Contains(err.Error(), "decode sinks file bad.json") {
		t.Fatalf("unexpected error %v", err)
	}
}
