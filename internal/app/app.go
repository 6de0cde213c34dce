package app

import (
	"io"

	"keyward/internal/domain"
	"keyward/internal/matrix"
	"keyward/internal/services/cryptoclient"
	"keyward/internal/services/roomtracker"
)

// App is the dependency graph the CLI commands run against.
type App struct {
	Config     *Config
	Store      domain.KeyStore
	Homeserver *matrix.Client
	Rooms      *roomtracker.Tracker
	Crypto     *cryptoclient.Client

	closer io.Closer
}

// Close releases the store if it holds resources.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
