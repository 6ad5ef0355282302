// Package observability provides formatted output for verbose CLI mode and
// the Prometheus collectors exported by the server.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// descriptionPreview is how many characters of a description are shown
	descriptionPreview = 200
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

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobPosting outputs a human-readable summary of an extracted posting.
func (p *Printer) PrintJobPosting(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:      %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", job.Company))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", job.Location))
	}
	if job.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform:   %s\n", job.Platform))
	}
	for _, opt := range []struct {
		label string
		value *string
	}{
		{"Salary:     ", job.Salary},
		{"Type:       ", job.JobType},
		{"Experience: ", job.Experience},
	} {
		if opt.value != nil {
			sb.WriteString(opt.label + *opt.value + "\n")
		}
	}

	if len(job.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:     %s\n", strings.Join(job.Skills, ", ")))
	}
	writeList(&sb, "Requirements", job.Requirements)
	writeList(&sb, "Benefits", job.Benefits)

	if job.Description != "" {
		desc := strings.ReplaceAll(job.Description, "\n", " ")
		if runes := []rune(desc); len(runes) > descriptionPreview {
			desc = string(runes[:descriptionPreview]) + "..."
		}
		sb.WriteString("\nDescription:\n")
		for _, line := range wrap(desc, boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox("EXTRACTED JOB POSTING", sb.String())
}

// PrintFillReport outputs the counts and per-field outcome of a fill pass.
func (p *Printer) PrintFillReport(report types.FillReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fields found:  %d\n", report.FieldsFound))
	sb.WriteString(fmt.Sprintf("Fields filled: %d\n", report.FieldsFilled))

	if len(report.Filled) > 0 {
		sb.WriteString("\nFilled:\n")
		for _, f := range report.Filled {
			sb.WriteString(fmt.Sprintf("  ✓ %s = %s\n", f.ProfileKey, f.Value))
		}
	}
	if len(report.Skipped) > 0 {
		sb.WriteString("\nSkipped:\n")
		count := min(len(report.Skipped), maxItemsToShow)
		for _, s := range report.Skipped[:count] {
			sb.WriteString(fmt.Sprintf("  - %s (%s)\n", s.ProfileKey, s.Reason))
		}
		if len(report.Skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Skipped)-maxItemsToShow))
		}
	}

	p.printBox("FORM FILL REPORT", sb.String())
}

// PrintAnalysis outputs the keyword analysis returned by the tailoring collaborator.
func (p *Printer) PrintAnalysis(a *types.Analysis) {
	if a == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %d/100\n", a.MatchScore))
	if len(a.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords:    %s\n", strings.Join(a.Keywords, ", ")))
	}
	writeList(&sb, "Suggestions", a.Suggestions)
	p.printBox("JOB ANALYSIS", sb.String())
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + title + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
