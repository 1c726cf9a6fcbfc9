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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/solosearch/internal/record"
	"github.com/Paintersrp/solosearch/internal/search"
)

func render(w io.Writer, format, collection string, results []record.Value) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	case "ids":
		for _, r := range results {
			if _, err := fmt.Fprintln(w, identify(collection, r)); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}
}

// identify names a record: nodes by name, data bag items by id.
func identify(collection string, r record.Value) string {
	keys := []string{"id", "name"}
	if collection == search.NodeCollection {
		keys = []string{"name", "id"}
	}
	for _, k := range keys {
		if v := r.GetString(k); v != "" {
			return v
		}
	}
	return "-"
}

// printSummary reports the result count when w is a terminal.
func printSummary(w io.Writer, n int, req search.Request) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}

	q := "every record"
	if req.Query != "" {
		q = req.Query
	}
	// Style for the stream being written, not stdout.
	r := lipgloss.NewRenderer(f, termenv.WithColorCache(true))
	countStyle := r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#0AF"))
	summaryStyle := r.NewStyle().
		Foreground(lipgloss.Color("#666666"))

	noun := "matches"
	if n == 1 {
		noun = "match"
	}
	fmt.Fprintln(w,
		countStyle.Render(fmt.Sprint(n))+
			summaryStyle.Render(fmt.Sprintf(" %s in %s for %s", noun, req.Collection, q)),
	)
}
