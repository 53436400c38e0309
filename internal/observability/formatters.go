// Package observability provides structured logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-forge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintCV outputs a human-readable summary of a CV.
func (p *Printer) PrintCV(title string, cv *types.CVData) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", cv.FullName))
	if h := cv.DisplayHeadline(); h != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", h))
	}
	if cv.TargetCompany != "" || cv.TargetRole != "" {
		sb.WriteString(fmt.Sprintf("Target:   %s / %s\n", orDash(cv.TargetRole), orDash(cv.TargetCompany)))
	}
	theme := cv.ThemeColor
	if theme != "" && !types.IsPaletteColor(theme) {
		theme += " (custom)"
	}
	sb.WriteString(fmt.Sprintf("Theme:    %s\n", theme))
	if cv.PhotoURL != "" {
		sb.WriteString("Photo:    yes\n")
	}
	sb.WriteString("\n")

	if len(cv.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(cv.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := cv.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s", orDash(e.JobTitle), orDash(e.Company)))
			if e.StartDate != "" || e.EndDate != "" {
				sb.WriteString(fmt.Sprintf(" (%s - %s)", e.StartDate, e.EndDate))
			}
			sb.WriteString("\n")
		}
		if len(cv.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cv.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education: %d  Awards: %d  Memberships: %d\n",
		len(cv.Education), len(cv.Awards), len(cv.Memberships)))

	if skills := types.SplitList(cv.Skills); len(skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", strings.Join(skills, ", ")))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPolishDiff lists which top-level fields and entries changed during polishing.
func (p *Printer) PrintPolishDiff(before, after *types.CVData) {
	if before == nil || after == nil {
		return
	}

	var sb strings.Builder
	changed := 0
	for _, f := range []struct {
		name      string
		old, next string
	}{
		{"fullName", before.FullName, after.FullName},
		{"headline", before.Headline, after.Headline},
		{"summary", before.Summary, after.Summary},
		{"skills", before.Skills, after.Skills},
		{"interests", before.Interests, after.Interests},
	} {
		if f.old != f.next {
			changed++
			sb.WriteString(fmt.Sprintf("~ %s\n", f.name))
		}
	}

	prev := make(map[string]types.Experience, len(before.Experience))
	for _, e := range before.Experience {
		prev[e.ID] = e
	}
	for _, e := range after.Experience {
		old, ok := prev[e.ID]
		switch {
		case !ok:
			changed++
			sb.WriteString(fmt.Sprintf("+ experience %s (%s)\n", e.ID, orDash(e.JobTitle)))
		case old != e:
			changed++
			sb.WriteString(fmt.Sprintf("~ experience %s (%s)\n", e.ID, orDash(e.JobTitle)))
		}
		delete(prev, e.ID)
	}
	for id := range prev {
		changed++
		sb.WriteString(fmt.Sprintf("- experience %s\n", id))
	}

	if changed == 0 {
		sb.WriteString("no changes\n")
	}

	p.printBox(fmt.Sprintf("POLISH CHANGES (%d)", changed), strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
