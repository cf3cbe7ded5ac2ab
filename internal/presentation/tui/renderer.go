package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects a light or dark background automatically.
func NewRenderer(style string, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if style != "" {
		opts = []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Summary describes a definition as markdown: its states, alphabet, transition
// table and lint issues.
func Summary(name string, def *domain.Definition, halt domain.State, issues []validator.Issue) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "- **Initial state:** `%s`\n", def.Initial)
	if halt != "" {
		fmt.Fprintf(&sb, "- **Halt state:** `%s`\n", halt)
	} else {
		sb.WriteString("- **Halt state:** none\n")
	}
	fmt.Fprintf(&sb, "- **States:** %d\n", len(def.Table.States()))
	fmt.Fprintf(&sb, "- **Transitions:** %d\n", def.Table.Len())

	alphabet := make([]string, 0)
	for _, s := range def.Table.Alphabet() {
		alphabet = append(alphabet, code(s.String()))
	}
	fmt.Fprintf(&sb, "- **Alphabet:** %s\n\n", strings.Join(alphabet, " "))

	sb.WriteString("## Transitions\n\n")
	sb.WriteString("| From | Read | To | Write | Move |\n")
	sb.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, tr := range def.Table.Transitions() {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			code(string(tr.From)), code(tr.Read.String()), code(string(tr.To)), code(tr.Write.String()), tr.Move)
	}

	if len(issues) > 0 {
		sb.WriteString("\n## Issues\n\n")
		for _, issue := range issues {
			fmt.Fprintf(&sb, "- **%s** %s\n", issue.Severity, issue.Message)
		}
	}

	return sb.String()
}

// code wraps s in backticks, escaping the characters that break a table cell.
func code(s string) string {
	if s == "`" {
		return "`` ` ``"
	}
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}
