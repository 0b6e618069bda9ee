package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/ui/pretty"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/language"
)

type directivesFlags struct {
	format   string
	fileKind string
}

// directiveInfo is the JSON form of a directive descriptor.
type directiveInfo struct {
	Name        string   `json:"name"`
	Usage       string   `json:"usage"`
	Occurrence  string   `json:"occurrence"`
	Tokens      []string `json:"tokens,omitempty"`
	Description string   `json:"description,omitempty"`
}

func newDirectivesCommand() *cobra.Command {
	flags := &directivesFlags{}

	cmd := &cobra.Command{
		Use:   "directives",
		Short: "List the directives available to a file kind",
		Long:  "List the built-in and configured directives registered for a file kind.",
		Example: `  razorparse directives                       # Views and pages
  razorparse directives --file-kind component # Components
  razorparse directives --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDirectives(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.fileKind, "file-kind", "legacy", "file kind: legacy, component, import")

	return cmd
}

func runDirectives(cmd *cobra.Command, flags *directivesFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", flags.format)
	}

	kind, err := language.ParseFileKind(flags.fileKind)
	if err != nil {
		return err
	}

	sess, err := loadSession(cmd, &config.Config{})
	if err != nil {
		return err
	}
	custom, err := sess.cfg.CustomDirectives()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	set := language.DefaultDirectives(kind).With(custom...)
	out := cmd.OutOrStdout()

	if flags.format == "json" {
		return writeDirectivesJSON(out, set)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	writeDirectivesText(out, pretty.NewStyles(pretty.IsColorEnabled(colorMode, out)), kind, set)
	return nil
}

func describe(desc *directive.Descriptor) directiveInfo {
	info := directiveInfo{
		Name:        desc.Directive,
		Usage:       desc.Usage.String(),
		Occurrence:  desc.Occurrence.String(),
		Description: desc.Description,
	}
	for _, tok := range desc.Tokens {
		text := tok.Kind.String()
		if tok.Optional {
			text += "?"
		}
		info.Tokens = append(info.Tokens, text)
	}
	return info
}

func writeDirectivesJSON(w io.Writer, set *directive.Set) error {
	infos := make([]directiveInfo, 0, set.Len())
	for _, desc := range set.Descriptors() {
		infos = append(infos, describe(desc))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(infos); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeDirectivesText(w io.Writer, styles *pretty.Styles, kind language.FileKind, set *directive.Set) {
	fmt.Fprintf(w, "%s\n\n", styles.SummaryTitle.Render(fmt.Sprintf("Directives for %s files (%d)", kind, set.Len())))

	for _, desc := range set.Descriptors() {
		info := describe(desc)
		signature := "@" + info.Name
		if len(info.Tokens) > 0 {
			signature += " " + strings.Join(info.Tokens, " ")
		}

		fmt.Fprintf(w, "  %s\n", styles.ID.Render(signature))
		fmt.Fprintf(w, "      %s\n", styles.Dim.Render(info.Usage+", "+info.Occurrence))
		if info.Description != "" {
			fmt.Fprintf(w, "      %s\n", info.Description)
		}
	}
}
