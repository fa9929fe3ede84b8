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

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/query"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse an item identifier into a query",
		ArgsUsage: "<identifier>",
		Description: fmt.Sprintf(`Parse an item identifier and print the structured query.

A leading dispatch prefix such as "hasitem_" is removed. Supported fields: %s.

# Examples

  imperatrix parse 'hasitem_id:DIAMOND_SWORD,enchants:sharpness;5'
  imperatrix parse --format json 'id:PAPER,name:Ticket,lore:Admit one|'`,
			strings.Join(query.SupportedFields(), ", ")),
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New(errors.ErrCodeInvalidRequest, "exactly one identifier is required")
			}
			identifier := cmd.Args().First()

			q, err := query.Parse(identifier)
			if err != nil {
				return err
			}

			return writeResult(ctx, cmd, &ParseResult{
				Identifier: identifier,
				Canonical:  q.String(),
				Query:      q,
			})
		},
	}
}
