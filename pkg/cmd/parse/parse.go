/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package parse

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/solosearch/internal/state"
)

func NewCmdParse(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [query]",
		Short: "Check a query and print its canonical form",
		Long: heredoc.Doc(`
			Parse a query without running it. On success the query is printed in
			canonical form, with implicit ANDs spelled out and required/prohibited
			prefixes rewritten. On failure the offending fragment and its offset
			are reported.
		`),
		Example: heredoc.Doc(`
			solosearch parse 'role:web -name:db*'
			solosearch parse 'uid:{1000 TO *]'
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.Engine.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return nil
		},
	}

	return cmd
}
