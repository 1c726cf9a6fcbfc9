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
package search

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/solosearch/internal/config"
	"github.com/Paintersrp/solosearch/internal/search"
	"github.com/Paintersrp/solosearch/internal/state"
	"github.com/Paintersrp/solosearch/pkg/arg"
	"github.com/Paintersrp/solosearch/pkg/flags"
)

func NewCmdSearch(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "search <collection> [query]",
		Aliases: []string{"s", "q"},
		Short:   "Search nodes or a data bag with a query",
		Long: heredoc.Doc(`
			Evaluate a query against every record of a collection and print the
			matches in their stored order.

			The collection is "node" or the name of a data bag. Role search is not
			available from a data bag directory.

			Queries use field:value terms joined with AND, OR and NOT (or &&, ||,
			!, - and +). Values may be quoted phrases, wildcards using * and ?, or
			ranges such as [a TO m] and {10 TO *}. An empty query matches
			everything.
		`),
		Example: heredoc.Doc(`
			solosearch search node role:web
			solosearch search node 'platform:ubuntu AND NOT tags:retired'
			solosearch search users 'groups:admin OR uid:[1000 TO 1999]' --format ids
			solosearch search node 'name:web*' --start 10 --rows 10
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args)
		},
	}

	flags.AddFormat(cmd)
	flags.AddPaging(cmd)
	cmd.Flags().
		IntP(
			"workers",
			"w",
			0,
			"Goroutines used to match records (default from config)",
		)
	if err := s.Viper.BindPFlag(config.KeyRows, cmd.Flags().Lookup("rows")); err != nil {
		return nil, err
	}
	if err := s.Viper.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers")); err != nil {
		return nil, err
	}

	return cmd, nil
}

func run(cmd *cobra.Command, s *state.State, args []string) error {
	collection, err := arg.HandleCollection(args)
	if err != nil {
		return err
	}
	format, err := flags.HandleFormat(cmd)
	if err != nil {
		return err
	}
	start, sort, err := flags.HandlePaging(cmd)
	if err != nil {
		return err
	}

	req := search.NewRequest(collection, arg.HandleQuery(args))
	req.Start = start
	req.Rows = s.Config.Search.Rows
	req.Sort = sort

	results, err := s.Engine.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), format, collection, results); err != nil {
		return err
	}
	printSummary(cmd.ErrOrStderr(), len(results), req)
	return nil
}
