package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// Formats lists the output formats understood by HandleFormat.
var Formats = []string{"json", "yaml", "ids"}

func AddFormat(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"format",
			"f",
			"json",
			"Output format: "+strings.Join(Formats, ", "),
		)
}

func HandleFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("error retrieving format flag: %w", err)
	}
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf(
			"unknown format %q, expected one of %s",
			format,
			strings.Join(Formats, ", "),
		)
	}
	return format, nil
}
