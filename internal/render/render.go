package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/samvad-hq/skillbank-client/pkg/binding"
)

// Terminal writes one line per observed view state.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal returns a renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Render prints the state of the named view.
func (t *Terminal) Render(name string, s binding.State) error {
	line := Line(name, s)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w, line)
	return err
}

// Line formats a state the way the terminal renderer prints it. Loading wins
// over stale data or errors.
func Line(name string, s binding.State) string {
	switch {
	case s.Loading:
		return fmt.Sprintf("[%s] loading", name)
	case s.Error != "":
		return fmt.Sprintf("[%s] error: %s", name, s.Error)
	default:
		raw, err := sonic.ConfigStd.Marshal(s.Data)
		if err != nil {
			return fmt.Sprintf("[%s] data: <unencodable: %v>", name, err)
		}
		return fmt.Sprintf("[%s] data: %s", name, raw)
	}
}
