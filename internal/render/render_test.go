package render

import (
	"bytes"
	"testing"

	"github.com/samvad-hq/skillbank-client/pkg/binding"
)

func TestLine(t *testing.T) {
	cases := []struct {
		state binding.State
		want  string
	}{
		{binding.State{Loading: true, Data: "stale"}, "[skills] loading"},
		{binding.State{Error: "not found", Data: "stale"}, "[skills] error: not found"},
		{binding.State{Data: []any{1.0, 2.0, 3.0}}, "[skills] data: [1,2,3]"},
		{binding.State{}, "[skills] data: null"},
	}
	for _, tc := range cases {
		if got := Line("skills", tc.state); got != tc.want {
			t.Fatalf("Line(%+v) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestTerminalRenderWritesLines(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.Render("a", binding.State{Loading: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := term.Render("a", binding.State{Data: map[string]any{"id": 1.0}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "[a] loading\n[a] data: {\"id\":1}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
