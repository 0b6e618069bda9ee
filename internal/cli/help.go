package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/razorparse/internal/ui/pretty"
)

// minFlagGap is the number of spaces pflag puts between a flag and its
// description.
const minFlagGap = 2

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style

	// Example lines are split into the command and its trailing "# comment".
	Example        lipgloss.Style
	ExampleComment lipgloss.Style

	Alias lipgloss.Style
	Dim   lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command: plain, Heading: plain, Subcommand: plain, Flag: plain,
			Description: plain, Example: plain, ExampleComment: plain,
			Alias: plain, Dim: plain,
		}
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return &HelpStyles{
		Command:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:           lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description:    lipgloss.NewStyle(),
		Example:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		ExampleComment: dim,
		Alias:          dim,
		Dim:            dim,
	}
}

// HelpFormatter renders Cobra help with Lipgloss styles.
type HelpFormatter struct {
	styles       *HelpStyles
	colorEnabled bool
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	return &HelpFormatter{
		styles:       NewHelpStyles(colorEnabled),
		colorEnabled: colorEnabled,
	}
}

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":     h.styles.Command.Render,
		"styleHeading":     h.styles.Heading.Render,
		"styleSubcommand":  h.styles.Subcommand.Render,
		"styleDescription": h.styles.Description.Render,
		"styleAlias":       h.styles.Alias.Render,
		"styleDim":         h.styles.Dim.Render,
		"styleExamples":    h.StyleExamples,
		"styleFlags":       h.StyleFlags,
		"rpad":             rpad,
		"trimRight":        trimTrailingWhitespaces,
		"join":             strings.Join,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExamples .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

// StyleExamples styles each example line, dimming a trailing "# comment".
func (h *HelpFormatter) StyleExamples(examples string) string {
	lines := strings.Split(strings.TrimRight(examples, "\n"), "\n")
	for i, line := range lines {
		command, comment, found := strings.Cut(line, "#")
		styled := h.styles.Example.Render(command)
		if found {
			styled += h.styles.ExampleComment.Render("#" + comment)
		}
		lines[i] = styled
	}
	return strings.Join(lines, "\n")
}

// StyleFlags renders a flag set's usage with flag names and types styled.
func (h *HelpFormatter) StyleFlags(flags *pflag.FlagSet) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles "  -f, --flag type   description".
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	gap := strings.Index(trimmed, strings.Repeat(" ", minFlagGap))
	if gap < 0 {
		return line
	}
	definition := trimmed[:gap]
	description := strings.TrimLeft(trimmed[gap:], " ")
	if description == "" {
		return line
	}

	fields := strings.Fields(definition)
	for i, field := range fields {
		if name, ok := strings.CutSuffix(field, ","); ok && strings.HasPrefix(name, "-") {
			fields[i] = h.styles.Flag.Render(name) + ","
		} else if strings.HasPrefix(field, "-") {
			fields[i] = h.styles.Flag.Render(field)
		} else {
			fields[i] = h.styles.Dim.Render(field)
		}
	}

	return indent + strings.Join(fields, " ") + "   " + h.styles.Description.Render(description)
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	render := func(name, text string, command *cobra.Command) error {
		tmpl, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplate, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
