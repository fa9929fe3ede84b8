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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/inventory"
	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/k8s/client"
	"github.com/akaregi/imperatrix/pkg/serializer"
)

const (
	envInventory   = "IMPERATRIX_INVENTORY"
	envDatabaseURL = "IMPERATRIX_DATABASE_URL"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path or cm://namespace/name (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig used for cm:// locations (default: $KUBECONFIG or ~/.kube/config)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func inventoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "inventory",
		Aliases: []string{"i"},
		Usage:   "Inventory snapshot: file path, http(s) URL or cm://namespace/name",
		Sources: cli.EnvVars(envInventory),
	}
}

func databaseURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database-url",
		Usage:   "Postgres DSN of the inventory database; takes precedence over --inventory",
		Sources: cli.EnvVars(envDatabaseURL),
	}
}

func playerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "player",
		Aliases: []string{"p"},
		Usage:   "Player whose inventory is evaluated",
	}
}

func recordsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "records",
		Aliases: []string{"r"},
		Usage:   "File or URL holding a list of item records; replaces --inventory and --player",
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid output format", err)
	}
	return f, nil
}

// newOutputWriter opens the --output destination in the --format format.
func newOutputWriter(cmd *cli.Command) (serializer.Serializer, error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	output := strings.TrimSpace(cmd.String("output"))
	kubeconfig := cmd.String("kubeconfig")
	if kubeconfig != "" && strings.HasPrefix(output, serializer.ConfigMapURIScheme) {
		ns, cmName, err := serializer.ParseConfigMapURI(output)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid output location", err)
		}
		c, _, err := client.GetKubeClientWithConfig(kubeconfig)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to create kubernetes client", err)
		}
		return serializer.NewConfigMapWriter(ns, cmName, f, serializer.WithConfigMapClient(c)), nil
	}

	return serializer.NewFileWriterOrStdout(f, output), nil
}

// writeResult serializes v to the configured output.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer serializer.Close(w)

	if err := w.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// openSource opens the inventory named by --database-url or --inventory.
// The returned function releases it.
func openSource(ctx context.Context, cmd *cli.Command) (inventory.Source, func(), error) {
	if dsn := strings.TrimSpace(cmd.String("database-url")); dsn != "" {
		db, err := inventory.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("using postgres inventory")
		return inventory.NewPostgresSource(db), func() {
			if err := db.Close(); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}, nil
	}

	uri := strings.TrimSpace(cmd.String("inventory"))
	if uri == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidRequest,
			"an inventory is required: set --inventory or --database-url")
	}
	src, err := inventory.OpenSnapshotSource(ctx, uri, inventory.WithKubeconfig(cmd.String("kubeconfig")))
	if err != nil {
		return nil, nil, err
	}
	return src, func() {}, nil
}

// loadRecords returns the records to evaluate: the --records document, the
// player's held item with held set, or the player's whole inventory.
func loadRecords(ctx context.Context, cmd *cli.Command, held bool) ([]item.Record, error) {
	if path := strings.TrimSpace(cmd.String("records")); path != "" {
		records, err := serializer.FromFileWithKubeconfig[[]item.Record](ctx, path, cmd.String("kubeconfig"))
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load records", err,
				map[string]any{"path": path})
		}
		if err := inventory.ValidateRecords(*records); err != nil {
			return nil, err
		}
		return *records, nil
	}

	player := strings.TrimSpace(cmd.String("player"))
	if player == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "--player is required unless --records is set")
	}

	src, release, err := openSource(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer release()

	if held {
		r, err := src.HeldItem(ctx, player)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return []item.Record{}, nil
		}
		return []item.Record{*r}, nil
	}
	return src.Inventory(ctx, player)
}
