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
package bags

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/solosearch/internal/state"
)

func NewCmdBags(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bags [bag]",
		Aliases: []string{"b", "ls"},
		Short:   "List data bags, or the item ids of one bag",
		Long: heredoc.Doc(`
			Without arguments, list the data bags found under the configured data
			bag path. With a bag name, list the ids of its items.
		`),
		Example: heredoc.Doc(`
			solosearch bags
			solosearch bags users
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				names []string
				err   error
			)
			if len(args) == 0 {
				names, err = s.Source.DataBags(cmd.Context())
			} else {
				names, err = s.Source.DataBag(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	return cmd
}
