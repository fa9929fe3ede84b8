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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/matcher"
	"github.com/akaregi/imperatrix/pkg/query"
)

func matchCmd() *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Evaluate an item query against an inventory",
		Description: `Evaluate a query against a player's inventory, or against a list of
records, and print the outcome.

# Examples

  imperatrix match --query 'id:STONE,amount:64' --inventory inventory.yaml --player Steve
  imperatrix match --query 'id:STONE' --records records.json --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Item identifier to evaluate",
				Required: true,
			},
			inventoryFlag(),
			databaseURLFlag(),
			playerFlag(),
			recordsFlag(),
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw := cmd.String("query")
			q, err := query.Parse(raw)
			if err != nil {
				return err
			}

			records, err := loadRecords(ctx, cmd, false)
			if err != nil {
				return err
			}

			res := newMatchResult()
			res.Player = cmd.String("player")
			res.Query = raw
			res.Records = len(records)
			res.Outcome = matcher.Matches(q, records)

			slog.Debug("match evaluated",
				"query", q.String(),
				"records", res.Records,
				"satisfied", res.Satisfied,
				"matched", res.MatchedQuantity)

			return writeResult(ctx, cmd, res)
		},
	}
}

func loreCmd() *cli.Command {
	return &cli.Command{
		Name:  "lore",
		Usage: "Search item lore for a regular expression",
		Description: `Report whether any non-empty lore line of the player's items contains a
match of the given regular expression. With --held only the item in the
player's main hand is searched.

# Examples

  imperatrix lore --substring 'Soulbound' --inventory inventory.yaml --player Steve
  imperatrix lore --substring '^Tier [0-9]' --held --inventory cm://game/inventory --player Alex`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "substring",
				Aliases:  []string{"s"},
				Usage:    "Regular expression searched in each lore line",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "held",
				Usage: "Search only the held item",
			},
			inventoryFlag(),
			databaseURLFlag(),
			playerFlag(),
			recordsFlag(),
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			substring := cmd.String("substring")
			if _, err := matcher.CompileLorePattern(substring); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid lore pattern", err)
			}

			held := cmd.Bool("held")
			if held && cmd.String("records") != "" {
				return errors.New(errors.ErrCodeInvalidRequest, "--held cannot be combined with --records")
			}

			records, err := loadRecords(ctx, cmd, held)
			if err != nil {
				return err
			}

			res := newMatchResult()
			res.Player = cmd.String("player")
			res.Substring = substring
			res.Held = held
			res.Records = len(records)
			res.Satisfied = matcher.PartialLoreMatch(records, substring)

			return writeResult(ctx, cmd, res)
		},
	}
}
