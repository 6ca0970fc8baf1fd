/*
File: app.go
Description: Shared wiring for all CLI commands: settings store, logger,
API session, response cache, and the signed-in XUID lookup.
*/

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/xau-tools/xau/pkg/cache"
	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/logging"
	"github.com/xau-tools/xau/pkg/settings"
	"github.com/xau-tools/xau/pkg/xbl"
)

// Version is the running release, compared against the update feed.
const Version = "1.0.0"

// App bundles the collaborators every command needs.
type App struct {
	DataDir string
	Store   *settings.Store
	Session *xbl.Session
	Cache   *cache.Cache

	log *logging.Logger
}

// OpenApp builds the shared application state from the global flags.
func OpenApp() (*App, error) {
	dataDir := viper.GetString("data_dir")

	config := logging.DefaultConfig(dataDir)
	config.Level = logging.LogLevel(viper.GetString("log_level"))
	config.Colors = !viper.GetBool("no_color")
	if viper.GetBool("json_logs") {
		config.Format = logging.LogFormatJSON
	}
	log, err := logging.NewLogger(config)
	if err != nil {
		return nil, err
	}

	store, err := settings.Open(filepath.Join(dataDir, "settings.json"))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	return &App{
		DataDir: dataDir,
		Store:   store,
		Session: xbl.NewSession(store, log.GetLogger(), Version),
		Cache:   cache.Open(filepath.Join(dataDir, "cache.json")),
		log:     log,
	}, nil
}

// Close persists the response cache and releases the app's resources.
func (a *App) Close() {
	if err := a.Cache.Save(); err != nil {
		a.Logger().Warnf("Failed to persist response cache: %v", err)
	}
	a.log.Close()
}

// Logger returns the app's structured logger.
func (a *App) Logger() *logrus.Logger {
	return a.log.GetLogger()
}

// CachedDocument reads a list document through the cache, logging the
// lookup and populating on a miss.
func (a *App) CachedDocument(key string, ttl time.Duration, fetch func() (jsondoc.Document, error)) (jsondoc.Document, error) {
	if doc, ok := a.Cache.Get(key); ok {
		logging.LogCacheEvent(a.Logger(), key, true)
		return doc, nil
	}
	logging.LogCacheEvent(a.Logger(), key, false)
	return a.Cache.GetOrFetch(key, ttl, fetch)
}

// SignedInXUID resolves the XUID of the stored token, failing with a
// sign-in hint when no token is stored or the service rejects it.
func (a *App) SignedInXUID(ctx context.Context) (string, error) {
	if a.Store.AuthToken() == "" {
		return "", fmt.Errorf("not signed in; run 'xau login' first")
	}
	xuid, err := a.Session.SelfXUID(ctx)
	if err != nil {
		if xbl.IsAuthFailure(err) {
			return "", fmt.Errorf("stored token was rejected; run 'xau login' again")
		}
		return "", err
	}
	return xuid, nil
}
