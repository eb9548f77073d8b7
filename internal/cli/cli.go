// Package cli parses the skillbank command line. Parsing is deterministic and
// never reads os.Args so it can be driven from tests.
package cli

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

// Command names.
const (
	CommandRequest = "request"
	CommandWatch   = "watch"
	CommandHistory = "history"
)

const defaultHistoryLimit = 20

// Args is the parsed form of one invocation.
type Args struct {
	Command string

	// Request is populated for the request command.
	Request apiclient.Request

	// Limit is the history row count.
	Limit int

	RawArgs []string
}

// headerFlags collects repeated -H "Key: Value" flags.
type headerFlags map[string]string

func (h headerFlags) String() string {
	parts := make([]string, 0, len(h))
	for k, v := range h {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ", ")
}

func (h headerFlags) Set(raw string) error {
	key, value, ok := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("header must look like \"Key: Value\", got %q", raw)
	}
	h[key] = strings.TrimSpace(value)
	return nil
}

// Usage describes the accepted commands.
func Usage() string {
	return `usage: skillbank <command> [flags]

commands:
  request  -endpoint /path [-method GET] [-data JSON] [-H "Key: Value"]...
  watch    keep views from VIEWS_FILE bound and render their state
  history  [-limit 20] print recent journal entries`
}

// ParseArgs parses args (without the program name).
func ParseArgs(args []string) (*Args, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing command\n%s", Usage())
	}

	out := &Args{Command: args[0], RawArgs: args}
	rest := args[1:]

	switch out.Command {
	case CommandRequest:
		req, err := parseRequest(rest)
		if err != nil {
			return nil, err
		}
		out.Request = req
	case CommandWatch:
		fs := newFlagSet(CommandWatch)
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
	case CommandHistory:
		fs := newFlagSet(CommandHistory)
		limit := fs.Int("limit", defaultHistoryLimit, "Number of journal entries to print")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if *limit <= 0 {
			return nil, fmt.Errorf("-limit must be positive")
		}
		out.Limit = *limit
	default:
		return nil, fmt.Errorf("unknown command %q\n%s", out.Command, Usage())
	}
	return out, nil
}

func parseRequest(args []string) (apiclient.Request, error) {
	fs := newFlagSet(CommandRequest)
	var (
		method   = fs.String("method", http.MethodGet, "HTTP method: GET|POST|PUT|PATCH|DELETE")
		endpoint = fs.String("endpoint", "", "Endpoint path appended to the API base (required)")
		data     = fs.String("data", "", "JSON payload")
		headers  = headerFlags{}
	)
	fs.Var(headers, "H", "Extra header \"Key: Value\" (repeatable)")

	if err := fs.Parse(args); err != nil {
		return apiclient.Request{}, err
	}
	if strings.TrimSpace(*endpoint) == "" {
		return apiclient.Request{}, fmt.Errorf("missing required -endpoint argument")
	}

	req := apiclient.Request{
		Endpoint: strings.TrimSpace(*endpoint),
		Method:   *method,
	}
	if _, err := req.NormalizedMethod(); err != nil {
		return apiclient.Request{}, err
	}
	if strings.TrimSpace(*data) != "" {
		var payload any
		if err := sonic.ConfigStd.UnmarshalFromString(*data, &payload); err != nil {
			return apiclient.Request{}, fmt.Errorf("invalid -data JSON: %w", err)
		}
		req.Payload = payload
	}
	if len(headers) > 0 {
		req.Headers = headers
	}
	return req, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("skillbank "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
