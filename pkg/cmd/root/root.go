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
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/solosearch/internal/config"
	"github.com/Paintersrp/solosearch/internal/constants"
	"github.com/Paintersrp/solosearch/internal/state"
	"github.com/Paintersrp/solosearch/pkg/cmd/bags"
	"github.com/Paintersrp/solosearch/pkg/cmd/initialize"
	"github.com/Paintersrp/solosearch/pkg/cmd/parse"
	"github.com/Paintersrp/solosearch/pkg/cmd/search"
)

// NewCmdRoot builds the command tree. s must come from state.Prepare; it is
// loaded once flags are parsed.
func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "solosearch",
		Short: "Query local node and data bag records without a search server.",
		Long: heredoc.Doc(`
			solosearch evaluates Lucene-style queries against JSON and YAML records
			kept in a data bag directory:

			  <data_bag_path>/node/<name>.json
			  <data_bag_path>/<bag>/<id>.json

			Settings are read from $HOME/.solosearch/config.yaml and from
			SOLOSEARCH_* environment variables, e.g. SOLOSEARCH_DATA_BAG_PATH.
		`),
		Version:      constants.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.Load(cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.solosearch/config.yaml)")
	flags.StringP("data-bag-path", "d", "", "Directory holding node and data bag records")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: console or json")

	bindings := map[string]string{
		config.KeyDataBagPath: "data-bag-path",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
	}
	for key, name := range bindings {
		if err := s.Viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}

	searchCmd, err := search.NewCmdSearch(s)
	if err != nil {
		return nil, err
	}

	cmd.AddCommand(
		searchCmd,
		bags.NewCmdBags(s),
		parse.NewCmdParse(s),
		initialize.NewCmdInit(s),
	)

	return cmd, nil
}
