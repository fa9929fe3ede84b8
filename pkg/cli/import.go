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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/akaregi/imperatrix/pkg/inventory"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load an inventory snapshot into the Postgres inventory tables",
		Description: `Validate a snapshot and replace the stored inventories of every player it
lists. Players absent from the snapshot are left untouched. The tables are
created when missing.

# Examples

  imperatrix import --inventory inventory.yaml --database-url postgres://localhost/imperatrix
  IMPERATRIX_DATABASE_URL=postgres://... imperatrix import --inventory cm://game/inventory`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "inventory",
				Aliases:  []string{"i"},
				Usage:    "Inventory snapshot: file path, http(s) URL or cm://namespace/name",
				Sources:  cli.EnvVars(envInventory),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Postgres DSN of the inventory database",
				Sources:  cli.EnvVars(envDatabaseURL),
				Required: true,
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			uri := strings.TrimSpace(cmd.String("inventory"))
			snap, err := inventory.LoadSnapshot(ctx, uri, inventory.WithKubeconfig(cmd.String("kubeconfig")))
			if err != nil {
				return err
			}

			db, err := inventory.OpenPostgres(ctx, cmd.String("database-url"))
			if err != nil {
				return err
			}
			defer db.Close()

			pg := inventory.NewPostgresSource(db)
			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := pg.Import(ctx, snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "imported %d players from %s\n", len(snap.Players), uri)
			return nil
		},
	}
}
