package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coresampler/rtscript/pkg/tokenizer"
)

func newLintCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Tokenize a script and report static built-in call warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("lint: %w", err)
			}
			tokens := tokenizer.MarkEventHandlerNames(tokenizer.New(src).Tokenize())
			out := cmd.OutOrStdout()

			if verbose {
				for _, t := range tokens {
					if t.IsEOF() {
						continue
					}
					fmt.Fprintf(out, "%d:%d\t%s\t%s\t%q\n", t.Line, t.Column, t.Kind, t.Ext, t.Text)
				}
			}

			diags := tokenizer.LintCalls(tokens)
			for _, d := range diags {
				fmt.Fprintf(out, "%s:%d:%d: %s\n", args[0], d.Line, d.Column, d.Message)
			}
			if len(diags) > 0 {
				return fmt.Errorf("lint: %d issue(s) found", len(diags))
			}
			fmt.Fprintf(out, "%s: no issues found\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every classified token")
	return cmd
}
