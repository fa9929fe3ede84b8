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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/header"
	"github.com/akaregi/imperatrix/pkg/placeholder"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve a placeholder identifier for a player",
		ArgsUsage: "<identifier>",
		Description: `Resolve a placeholder identifier the way the game server would render it.

Supported identifiers:
  hasitem_<query>                        "true" when the inventory satisfies the query
  hasitem_lorepartialmatch_<regex>       "true" when any inventory lore line matches
  holditem_lorepartialmatch_<regex>      "true" when a held item lore line matches
  okopoint                               the player's score
  tps                                    the server's 1-minute TPS

# Examples

  imperatrix resolve --inventory inventory.yaml --player Steve 'hasitem_id:STONE,amount:3'
  imperatrix resolve --inventory inventory.yaml --player Steve tps`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "player",
				Aliases:  []string{"p"},
				Usage:    "Player the identifier is resolved for",
				Required: true,
			},
			inventoryFlag(),
			databaseURLFlag(),
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New(errors.ErrCodeInvalidRequest, "exactly one identifier is required")
			}
			identifier := cmd.Args().First()
			player := strings.TrimSpace(cmd.String("player"))

			src, release, err := openSource(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			opts := []placeholder.Option{placeholder.WithInventorySource(src)}
			if scores, ok := src.(placeholder.ScoreSource); ok {
				opts = append(opts, placeholder.WithScoreSource(scores))
			}
			if tps, ok := src.(placeholder.TPSSampler); ok {
				opts = append(opts, placeholder.WithTPSSampler(tps))
			}

			res := &PlaceholderResult{
				Player:     player,
				Identifier: identifier,
				Value:      placeholder.New(opts...).Resolve(ctx, player, identifier),
			}
			res.Init(header.KindPlaceholderResult, header.APIVersionV1, version)

			return writeResult(ctx, cmd, res)
		},
	}
}
