package arg

import (
	"fmt"
	"strings"
)

func HandleCollection(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf(
			"error: No collection given. Use node, role or a data bag name",
		)
	}
	return args[0], nil
}

// HandleQuery joins the arguments after the collection into one query, so
// unquoted queries split by the shell still work.
func HandleQuery(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return strings.Join(args[1:], " ")
}
