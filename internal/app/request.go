package app

import (
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/samvad-hq/skillbank-client/internal/config"
	"github.com/samvad-hq/skillbank-client/internal/logger"
	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

// Request executes one API call and prints the decoded result to out.
func Request(ctx context.Context, cfg *config.Config, log logger.Logger, req apiclient.Request, out io.Writer) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	store, err := openJournal(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.ErrorObj("journal close failed", "error", err)
		}
	}()

	result, err := newAPIClient(cfg, log, store).Execute(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

// History prints up to limit recent invocations from the journal.
func History(cfg *config.Config, log logger.Logger, limit int, out io.Writer) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	store, err := openJournal(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	invs, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	for _, inv := range invs {
		status := "ok"
		if !inv.Succeeded {
			status = "failed: " + inv.Message
		}
		if _, err := fmt.Fprintf(out, "%s %s %-6s %s %s (%s)\n",
			inv.ID, inv.StartedAt.Format("2006-01-02T15:04:05Z07:00"), inv.Method, inv.Endpoint, status, inv.Duration); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
