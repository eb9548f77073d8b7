package app

import (
	"fmt"

	"github.com/samvad-hq/skillbank-client/internal/config"
	"github.com/samvad-hq/skillbank-client/internal/logger"
	"github.com/samvad-hq/skillbank-client/internal/storage"
	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
	"github.com/samvad-hq/skillbank-client/pkg/httpclient"
)

// openJournal opens the configured invocation journal.
func openJournal(cfg *config.Config, log logger.Logger) (storage.Store, error) {
	store, err := storage.NewStore(cfg.JournalType, cfg.JournalPath, storage.Options{
		TTL:             cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"ttl_seconds":              int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})
	return store, nil
}

// newAPIClient builds the request executor for the configured API origin.
func newAPIClient(cfg *config.Config, log logger.Logger, rec apiclient.Recorder) *apiclient.Client {
	opts := []apiclient.Option{
		apiclient.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		apiclient.WithLogger(log),
	}
	if rec != nil {
		opts = append(opts, apiclient.WithRecorder(rec))
	}
	return apiclient.New(apiclient.BaseURL(cfg.APIOrigin, cfg.APIBasePath), opts...)
}
