// Package report renders build status as a fixed-width text table.
//
// Columns are padded to their width but never truncated, so a value longer
// than its column pushes the rest of the line to the right.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hochfrequenz/appcenter-builds/internal/domain"
)

// Column widths
const (
	BranchWidth   = 15
	StatusWidth   = 15
	DurationWidth = 15
	LinkWidth     = 100
)

// Header titles
var header = Row{
	Branch:   "Branch name",
	Status:   "Build status",
	Duration: "Duration",
	Link:     "Link to build logs",
}

// Row is one printed line
type Row struct {
	Branch   string
	Status   string
	Duration string
	Link     string
}

// LinkFunc returns the log link for a build of branch
type LinkFunc func(branch string, buildID int) string

// Rows projects builds onto printable rows
func Rows(builds []domain.Build, link LinkFunc) []Row {
	rows := make([]Row, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, NewRow(b, link))
	}
	return rows
}

// NewRow projects a single build
func NewRow(b domain.Build, link LinkFunc) Row {
	var duration string
	if d, ok := b.Duration(); ok {
		duration = domain.FormatDuration(d)
	}
	return Row{
		Branch:   b.SourceBranch,
		Status:   b.State(),
		Duration: duration,
		Link:     link(b.SourceBranch, b.ID),
	}
}

// Line formats the row with fixed column widths, separated by one space
func (r Row) Line() string {
	return strings.Join([]string{
		ljust(r.Branch, BranchWidth),
		ljust(r.Status, StatusWidth),
		ljust(r.Duration, DurationWidth),
		ljust(r.Link, LinkWidth),
	}, " ")
}

// Write prints the header followed by one line per row
func Write(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, header.Line()); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.Line()); err != nil {
			return err
		}
	}
	return nil
}

// ljust pads s with spaces to width characters and leaves longer values
// as they are.
func ljust(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
