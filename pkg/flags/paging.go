package flags

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/solosearch/internal/search"
)

func AddPaging(cmd *cobra.Command) {
	cmd.Flags().Int("start", 0, "Number of matches to skip")
	cmd.Flags().
		IntP(
			"rows",
			"n",
			search.DefaultRows,
			"Maximum number of matches to return",
		)
	cmd.Flags().String("sort", "", "Sort order (sorting is not supported)")
}

// HandlePaging reads the start and sort flags. Rows come from the
// configuration the flag is bound to. sort is nil unless --sort was given.
func HandlePaging(cmd *cobra.Command) (start int, sort *string, err error) {
	start, err = cmd.Flags().GetInt("start")
	if err != nil {
		return 0, nil, fmt.Errorf("error retrieving start flag: %w", err)
	}
	if !cmd.Flags().Changed("sort") {
		return start, nil, nil
	}
	value, err := cmd.Flags().GetString("sort")
	if err != nil {
		return 0, nil, fmt.Errorf("error retrieving sort flag: %w", err)
	}
	return start, &value, nil
}
