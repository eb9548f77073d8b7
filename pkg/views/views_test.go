package views

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write views file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "views.yaml", `
views:
  - id: skills
    name: My Skill Bank
    endpoint: /skills
  - id: search
    endpoint: /skills/search
    method: post
    payload:
      q: golang
      page: 1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 || all[0].ID != "skills" || all[1].ID != "search" {
		t.Fatalf("unexpected views %+v", all)
	}
	if all[0].Method != http.MethodGet {
		t.Fatalf("expected default GET, got %s", all[0].Method)
	}

	search, ok := reg.ByID("search")
	if !ok {
		t.Fatalf("expected search view")
	}
	if search.Name != "search" || search.Method != http.MethodPost {
		t.Fatalf("unexpected search view %+v", search)
	}
	req := search.Request()
	if req.Endpoint != "/skills/search" || req.Payload == nil {
		t.Fatalf("unexpected request %+v", req)
	}
	if _, err := req.Key(); err != nil {
		t.Fatalf("yaml payload must serialize: %v", err)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "views.json", `{"views":[{"id":"me","endpoint":"/me","method":"GET"}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if v, ok := reg.ByID("me"); !ok || v.Endpoint != "/me" {
		t.Fatalf("unexpected registry contents %+v", reg.All())
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
views:
  - id: a
    endpoint: /a
  - id: a
    endpoint: /b
`,
		"missing endpoint": `
views:
  - id: a
`,
		"bad method": `
views:
  - id: a
    endpoint: /a
    method: TRACE
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "views.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryEmptyFileIsEmptyRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeFile(t, "views.yaml", "views: []\n"))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 0 {
		t.Fatalf("expected no views")
	}
}
