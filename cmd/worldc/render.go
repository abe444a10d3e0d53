// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/invowk/worldc/internal/compiler"
	"github.com/invowk/worldc/internal/emit"
	"github.com/invowk/worldc/internal/issue"
)

// explainStyle lets glamour pick a dark, light or plain style for the terminal.
const explainStyle = "auto"

// renderError writes err to w. Stage errors are listed one per line with
// their category; in verbose mode actionable errors include their chain.
func renderError(w io.Writer, err error, verbose bool) {
	var stageErr *compiler.StageError
	if !errors.As(err, &stageErr) {
		fmt.Fprintln(w, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
		return
	}

	noun := "errors"
	if len(stageErr.Errs) == 1 {
		noun = "error"
	}
	fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf("✗ %s failed with %d %s", stageErr.Stage, len(stageErr.Errs), noun)))
	for _, e := range stageErr.Errs {
		line := "  • " + formatErrorForDisplay(e, verbose)
		if iss := issue.Get(issue.CategoryOf(e)); iss != nil {
			line += " " + VerboseStyle.Render("["+iss.Title()+"]")
		}
		fmt.Fprintln(w, line)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// explain renders the guidance page of every category found in err.
func explain(w io.Writer, err error) error {
	var ids []issue.Id
	var stageErr *compiler.StageError
	if errors.As(err, &stageErr) {
		for _, e := range stageErr.Errs {
			if id := issue.CategoryOf(e); id != 0 && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	} else if id := issue.CategoryOf(err); id != 0 {
		ids = append(ids, id)
	}

	for _, id := range ids {
		rendered, renderErr := issue.Get(id).Render(explainStyle)
		if renderErr != nil {
			return renderErr
		}
		fmt.Fprint(w, rendered)
	}
	return nil
}

// renderSummary renders the entity counts as a table.
func renderSummary(c emit.Counts) string {
	rows := [][]string{
		{"Regions", fmt.Sprint(c.Regions)},
		{"Stages", fmt.Sprint(c.Stages)},
		{"Areas", fmt.Sprint(c.Areas)},
		{"Locations", fmt.Sprint(c.Locations)},
		{"Events", fmt.Sprint(c.Events)},
		{"Exits", fmt.Sprint(c.Exits)},
		{"Entrances", fmt.Sprint(c.Entrances)},
		{"Flag items", fmt.Sprint(c.FlagItems)},
		{"Counter items", fmt.Sprint(c.CounterItems)},
		{"Requirements", fmt.Sprint(c.Requirements)},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtitleStyle).
		Headers("Entity", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 1:
				return tableCountStyle
			default:
				return tableCellStyle
			}
		})
	return t.Render()
}
