// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/taste-curator/internal/taste"
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCanonicalTaste outputs a human-readable summary of the extracted taste.
func (p *Printer) PrintCanonicalTaste(ct *taste.CanonicalTaste) {
	if ct == nil {
		return
	}

	var sb strings.Builder

	for _, c := range taste.Categories() {
		cat := ct.Categories[c]
		terms := "(none)"
		if len(cat.Terms) > 0 {
			terms = strings.Join(cat.Terms, ", ")
		}
		sb.WriteString(fmt.Sprintf("%-7s %s\n", string(c)+":", terms))
		sb.WriteString(fmt.Sprintf("        source: %s\n", cat.Source))
	}
	if ct.Region != "" {
		sb.WriteString(fmt.Sprintf("\nRegion hint: %s\n", ct.Region))
	}

	p.printBox("EXTRACTED TASTE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSignalSet outputs the resolved graph signals for one category.
func (p *Printer) PrintSignalSet(category taste.Category, signals taste.SignalSet) {
	var sb strings.Builder

	if signals.Empty() {
		sb.WriteString("(no signals resolved)")
	} else {
		if signals.EntityID != "" {
			sb.WriteString(fmt.Sprintf("Entity:   %s\n", signals.EntityID))
		}
		if signals.TagID != "" {
			sb.WriteString(fmt.Sprintf("Tag:      %s\n", signals.TagID))
		}
		if signals.AudienceID != "" {
			sb.WriteString(fmt.Sprintf("Audience: %s\n", signals.AudienceID))
		}
		if signals.LocationQuery != "" {
			sb.WriteString(fmt.Sprintf("Location: %s\n", signals.LocationQuery))
		}
	}

	p.printBox("SIGNALS: "+strings.ToUpper(string(category)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFinalResponse outputs the assembled recommendations per category.
func (p *Printer) PrintFinalResponse(resp *taste.FinalResponse) {
	if resp == nil {
		return
	}

	for _, c := range taste.Categories() {
		result := resp.Recommendations[c]

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Provenance: %s\n\n", result.Provenance))

		count := min(len(result.Items), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := result.Items[i]
			sb.WriteString(fmt.Sprintf("%2d. %s (match %d)\n", i+1, item.Name, item.MatchScore))
			if item.Description != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", item.Description))
			}
		}
		if len(result.Items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Items)-maxItemsToShow))
		}

		p.printBox(strings.ToUpper(string(c)), strings.TrimSuffix(sb.String(), "\n"))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extraction source: %s\n", resp.Source))
	for _, c := range taste.Categories() {
		sb.WriteString(fmt.Sprintf("%-7s synthetic: %t\n", string(c)+":", resp.Synthetic[c]))
	}
	p.printBox("SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
