package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sectionrank/sectionrank/internal/collection"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("81")).
			Padding(0, 1)
)

// printSummary renders a ranked collection's top sections to the terminal.
// The full report still goes to the output directory; this is a glanceable
// digest.
func printSummary(w io.Writer, name string, report collection.Report) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("Persona:"), report.Metadata.Persona))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("Job:"), report.Metadata.JobToBeDone))
	b.WriteString(fmt.Sprintf("%s %d\n", dimStyle.Render("Documents:"), len(report.Metadata.InputDocuments)))

	for _, sec := range report.ExtractedSections {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			scoreStyle.Render(fmt.Sprintf("%2d.", sec.ImportanceRank)),
			sec.SectionTitle,
			dimStyle.Render(fmt.Sprintf("(%s p.%d)", sec.Document, sec.PageNumber)),
		))
	}
	if len(report.ExtractedSections) == 0 {
		b.WriteString(dimStyle.Render("no sections ranked"))
		b.WriteString("\n")
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
