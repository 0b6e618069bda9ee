package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/ui/pretty"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/engine"
	"github.com/yaklabco/razorparse/pkg/runner"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// inspectFunc renders one parsed file.
type inspectFunc func(w io.Writer, styles *pretty.Styles, result *engine.Result) error

func newTokensCommand() *cobra.Command {
	return newInspectCommand(
		"tokens <file>...",
		"Print the token stream of Razor files",
		`Print every token of the parsed and rewritten tree in document order,
with its 1-based line and column, kind and content. Zero-width tokens
such as missing braces are shown as <marker>.`,
		writeTokens,
	)
}

func newTreeCommand() *cobra.Command {
	return newInspectCommand(
		"tree <file>...",
		"Print the syntax tree of Razor files",
		`Print the rewritten syntax tree with node kinds, byte ranges and
annotations. Nodes carrying diagnostics are marked with !<ID>.`,
		writeTree,
	)
}

func newInspectCommand(use, short, long string, render inspectFunc) *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, &cfg, render)
		},
	}
	addLanguageFlags(cmd, &cfg)

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, cliCfg *config.Config, render inspectFunc) error {
	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(sess.cfg)
	if err != nil {
		return err
	}
	eng.SkipCodegen = true

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	run := runner.New(eng)
	fsys := afero.NewOsFs()
	for i, path := range args {
		outcome := run.ProcessFile(sess.ctx, fsys, path)
		if outcome.Error != nil {
			return outcome.Error
		}

		if len(args) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, styles.FilePath.Render("==> "+path+" <=="))
		}
		if err := render(out, styles, outcome.Result); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}
	return nil
}

func writeTokens(w io.Writer, styles *pretty.Styles, result *engine.Result) error {
	buf := bufio.NewWriter(w)
	doc := result.Source()

	offset := 0
	for _, tok := range syntax.Tokens(result.Tree.Root) {
		buf.WriteString(styles.FormatToken(doc, offset, tok))
		offset += tok.Len()
	}
	return buf.Flush()
}

func writeTree(w io.Writer, _ *pretty.Styles, result *engine.Result) error {
	return syntax.Dump(w, result.Tree.Root)
}
