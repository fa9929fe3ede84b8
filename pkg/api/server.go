// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/inventory"
	"github.com/akaregi/imperatrix/pkg/logging"
	"github.com/akaregi/imperatrix/pkg/placeholder"
	"github.com/akaregi/imperatrix/pkg/query"
	"github.com/akaregi/imperatrix/pkg/server"
)

const (
	name           = "imperatrixd"
	versionDefault = "dev"

	// EnvInventory locates an inventory snapshot: file path, http(s) URL
	// or cm://namespace/name.
	EnvInventory = "IMPERATRIX_INVENTORY"
	// EnvDatabaseURL is a Postgres DSN. It takes precedence over EnvInventory.
	EnvDatabaseURL = "IMPERATRIX_DATABASE_URL"
	// EnvQueryCacheSize sets the number of parsed identifiers kept in memory.
	EnvQueryCacheSize = "IMPERATRIX_QUERY_CACHE_SIZE"
	// EnvKubeconfig points at the kubeconfig used for cm:// snapshots.
	EnvKubeconfig = "KUBECONFIG"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/akaregi/imperatrix/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Settings is the environment-derived configuration of the API server.
type Settings struct {
	Inventory      string
	DatabaseURL    string
	Kubeconfig     string
	QueryCacheSize int
}

// SettingsFromEnv reads Settings from the process environment.
func SettingsFromEnv() (Settings, error) {
	s := Settings{
		Inventory:      strings.TrimSpace(os.Getenv(EnvInventory)),
		DatabaseURL:    strings.TrimSpace(os.Getenv(EnvDatabaseURL)),
		Kubeconfig:     strings.TrimSpace(os.Getenv(EnvKubeconfig)),
		QueryCacheSize: defaults.QueryCacheSize,
	}

	if v := strings.TrimSpace(os.Getenv(EnvQueryCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s must be a positive integer", EnvQueryCacheSize),
				map[string]any{"value": v})
		}
		s.QueryCacheSize = n
	}

	return s, nil
}

// closer releases a source's resources when the server stops.
type closer func() error

// sourceFor opens the inventory backend named by s. A nil source with a nil
// error means none is configured.
func sourceFor(ctx context.Context, s Settings) (placeholder.InventorySource, closer, error) {
	switch {
	case s.DatabaseURL != "":
		db, err := inventory.OpenPostgres(ctx, s.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := inventory.NewPostgresSource(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("inventory source", "type", "postgres")
		return pg, db.Close, nil

	case s.Inventory != "":
		src, err := inventory.OpenSnapshotSource(ctx, s.Inventory, inventory.WithKubeconfig(s.Kubeconfig))
		if err != nil {
			return nil, nil, err
		}
		slog.Info("inventory source", "type", "snapshot", "uri", s.Inventory, "players", len(src.Players()))
		return src, nil, nil

	default:
		slog.Warn("no inventory source configured", "env", []string{EnvDatabaseURL, EnvInventory})
		return nil, nil, nil
	}
}

// NewHandlerFromSettings builds the API handler and the function that
// releases its resources.
func NewHandlerFromSettings(ctx context.Context, s Settings) (*Handler, func(), error) {
	parser, err := query.NewCachedParser(s.QueryCacheSize)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid query cache size", err)
	}

	src, closeSource, err := sourceFor(ctx, s)
	if err != nil {
		return nil, nil, err
	}

	ropts := []placeholder.Option{placeholder.WithParser(parser)}
	if src != nil {
		ropts = append(ropts, placeholder.WithInventorySource(src))
	}
	// snapshots also carry scores and server TPS
	if scores, ok := src.(placeholder.ScoreSource); ok {
		ropts = append(ropts, placeholder.WithScoreSource(scores))
	}
	if tps, ok := src.(placeholder.TPSSampler); ok {
		ropts = append(ropts, placeholder.WithTPSSampler(tps))
	}

	h := NewHandler(WithParser(parser), WithResolver(placeholder.New(ropts...)))

	cleanup := func() {
		if closeSource == nil {
			return
		}
		if err := closeSource(); err != nil {
			slog.Warn("failed to close inventory source", "error", err)
		}
	}
	return h, cleanup, nil
}

// Serve starts the API server and blocks until shutdown.
// It loads .env, configures logging, opens the inventory source and
// delegates the server lifecycle to pkg/server.
func Serve() error {
	ctx := context.Background()

	// .env is optional
	_ = godotenv.Load()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	settings, err := SettingsFromEnv()
	if err != nil {
		return err
	}

	h, cleanup, err := NewHandlerFromSettings(ctx, settings)
	if err != nil {
		slog.Error("failed to initialize inventory source", "error", err)
		return err
	}
	defer cleanup()

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(h.Routes()),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
