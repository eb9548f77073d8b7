// Package views loads the declarative list of views a watcher keeps bound.
package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/skillbank-client/internal/registryfile"
	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

// View is one rendering instance: the request it watches and how it is labelled.
type View struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Method   string `json:"method" yaml:"method"`
	Payload  any    `json:"payload" yaml:"payload"`
}

type file struct {
	Views []View `json:"views" yaml:"views"`
}

// Registry holds the views loaded from a config file, in file order. It is
// immutable once loaded.
type Registry struct {
	views []View
	idx   map[string]View
}

// LoadRegistry loads views from a YAML or JSON file. Entries are trimmed,
// the method defaults to GET, and duplicate ids are rejected.
func LoadRegistry(path string) (*Registry, error) {
	var parsed file
	if err := registryfile.Load(path, "views", &parsed); err != nil {
		return nil, err
	}

	reg := &Registry{
		views: make([]View, 0, len(parsed.Views)),
		idx:   make(map[string]View, len(parsed.Views)),
	}
	for i := range parsed.Views {
		v, err := sanitizeView(parsed.Views[i])
		if err != nil {
			return nil, fmt.Errorf("views[%d]: %w", i, err)
		}
		if _, exists := reg.idx[v.ID]; exists {
			return nil, fmt.Errorf("duplicate view id %q", v.ID)
		}
		reg.views = append(reg.views, v)
		reg.idx[v.ID] = v
	}
	return reg, nil
}

func sanitizeView(v View) (View, error) {
	v.ID = strings.TrimSpace(v.ID)
	v.Name = strings.TrimSpace(v.Name)
	v.Endpoint = strings.TrimSpace(v.Endpoint)

	if v.ID == "" {
		return View{}, errors.New("id is required")
	}
	if v.Endpoint == "" {
		return View{}, fmt.Errorf("endpoint is required for view %q", v.ID)
	}
	if v.Name == "" {
		v.Name = v.ID
	}

	method, err := apiclient.Request{Method: v.Method}.NormalizedMethod()
	if err != nil {
		return View{}, fmt.Errorf("view %q: %w", v.ID, err)
	}
	v.Method = method
	return v, nil
}

// Request builds the descriptor the view watches.
func (v View) Request() apiclient.Request {
	return apiclient.Request{Endpoint: v.Endpoint, Method: v.Method, Payload: v.Payload}
}

// All returns the views in file order.
func (r *Registry) All() []View {
	if r == nil {
		return nil
	}
	out := make([]View, len(r.views))
	copy(out, r.views)
	return out
}

// ByID returns the view with the given id.
func (r *Registry) ByID(id string) (View, bool) {
	if r == nil {
		return View{}, false
	}
	v, ok := r.idx[strings.TrimSpace(id)]
	return v, ok
}
