// Package observability provides formatted output utilities for the
// chat CLI's verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/session"
	"github.com/jonathan/career-assistant/internal/types"
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

// PrintProfile outputs the current user profile.
func (p *Printer) PrintProfile(profile map[string]string) {
	if len(profile) == 0 {
		p.printBox("USER PROFILE", "(empty)")
		return
	}

	var sb strings.Builder
	for _, field := range []string{
		session.ProfileName,
		session.ProfileJobTitle,
		session.ProfileExperience,
		session.ProfileSkills,
	} {
		if value := profile[field]; value != "" {
			sb.WriteString(fmt.Sprintf("%-12s %s\n", field+":", value))
		}
	}
	if resume := profile[session.ProfileResumeContent]; resume != "" {
		sb.WriteString(fmt.Sprintf("resume:      %d chars on record\n", len(resume)))
	}
	if sb.Len() == 0 {
		sb.WriteString("(empty)")
	}

	p.printBox("USER PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPending outputs the in-flight slot collection, if any.
func (p *Printer) PrintPending(pending *session.PendingSlotFill) {
	if pending == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category: %s\n", pending.Category))
	sb.WriteString(fmt.Sprintf("Waiting for: %s\n", strings.Join(pending.Missing, ", ")))
	if len(pending.Collected) > 0 {
		sb.WriteString("Collected so far:\n")
		for field, value := range pending.Collected {
			if len(value) > 30 {
				value = value[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", field, value))
		}
	}

	p.printBox("PENDING SLOT FILL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs the most recent conversation turns.
func (p *Printer) PrintHistory(history []types.Message) {
	if len(history) == 0 {
		p.printBox("CONVERSATION HISTORY", "(no turns yet)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total turns: %d\n\n", len(history)))

	start := len(history) - maxItemsToShow
	if start < 0 {
		start = 0
	}
	if start > 0 {
		sb.WriteString(fmt.Sprintf("... %d earlier turns\n\n", start))
	}
	for i, m := range history[start:] {
		content := m.Content
		if len(content) > 45 {
			content = content[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, content))
		if i < len(history[start:])-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CONVERSATION HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRouting outputs which category a message was routed to.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRouting(category types.Category) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "ROUTED TO: "+string(category))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}
