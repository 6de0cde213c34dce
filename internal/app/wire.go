package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"keyward/internal/account"
	"keyward/internal/domain"
	"keyward/internal/matrix"
	"keyward/internal/services/cryptoclient"
	"keyward/internal/services/roomtracker"
	"keyward/internal/store"
)

// Wire constructs the dependency graph from cfg.
func Wire(cfg *Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	keyStore, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	hs, err := matrix.NewClient(matrix.Config{
		HomeserverURL: cfg.HomeserverURL,
		AccessToken:   cfg.AccessToken,
		HTTPClient:    cfg.HTTP,
		Logger:        logger.With(slog.String("component", "matrix")),
	})
	if err != nil {
		closeQuietly(closer)
		return nil, err
	}

	tracker := roomtracker.New(hs, logger.With(slog.String("component", "rooms")))

	client, err := cryptoclient.New(cryptoclient.Config{
		Store:      keyStore,
		Homeserver: hs,
		Accounts:   account.Factory{},
		Rooms:      tracker,
		UserID:     cfg.UserID,
		Logger:     logger.With(slog.String("component", "crypto")),
	})
	if err != nil {
		closeQuietly(closer)
		return nil, err
	}

	return &App{
		Config:     cfg,
		Store:      keyStore,
		Homeserver: hs,
		Rooms:      tracker,
		Crypto:     client,
		closer:     closer,
	}, nil
}

// openStore builds the configured backend. The closer is nil when the
// backend holds nothing open.
func openStore(cfg *Config) (domain.KeyStore, io.Closer, error) {
	switch cfg.Store.Backend {
	case BackendMemory:
		return store.NewMemoryStore(), nil, nil
	case BackendFile:
		if err := os.MkdirAll(cfg.Store.Path, 0o700); err != nil {
			return nil, nil, fmt.Errorf("app: create store dir: %w", err)
		}
		return store.NewFileStore(cfg.Store.Path, cfg.Passphrase), nil, nil
	case BackendLevelDB:
		s, err := store.OpenLevelStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown store backend %q", cfg.Store.Backend)
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
