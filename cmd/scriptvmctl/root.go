// Command scriptvmctl is a developer-facing front end for the
// engine-channel harness: lint NKSP-style scripts offline, or drive a
// synthetic note-on through a bound handler and print the resulting
// event/note timeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coresampler/rtscript/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cfgBox defers config resolution until after cobra has parsed flags
// (PersistentPreRunE runs once, before whichever subcommand's RunE).
type cfgBox struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	var configPath string
	box := &cfgBox{}

	root := &cobra.Command{
		Use:           "scriptvmctl",
		Short:         "Inspect and exercise the NKSP script VM harness",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	v, err := config.New("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := config.BindFlags(root, v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := config.New(configPath)
			if err != nil {
				return err
			}
			if err := config.BindExistingFlags(cmd.Root().PersistentFlags(), loaded); err != nil {
				return err
			}
			v = loaded
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		box.cfg = cfg
		return nil
	}

	root.AddCommand(newLintCmd())
	root.AddCommand(newRunCmd(box))
	return root
}
