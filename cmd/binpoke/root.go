package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/praetorian-inc/binpoke/pkg/command"
	"github.com/praetorian-inc/binpoke/pkg/config"
	"github.com/praetorian-inc/binpoke/pkg/fileview"
	"github.com/praetorian-inc/binpoke/pkg/listing"
	"github.com/praetorian-inc/binpoke/pkg/verbs"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

// errUsage signals that the syntax summary was printed and the process
// should fail without a further message.
var errUsage = errors.New("usage")

// rootOptions holds global flag values for one invocation.
type rootOptions struct {
	program    string
	configPath string
	colorMode  string

	klogFlags *flag.FlagSet
	cfg       config.Config
}

func newRootCmd(program string) *cobra.Command {
	opts := &rootOptions{program: program}

	cmd := &cobra.Command{
		Use:   "binpoke <verb> <path> [<preposition> <value>]...",
		Short: "binpoke - inspect and manipulate binary files by byte offset",
		Long: `binpoke lists, queries and resizes binary files by byte offset.

Commands are written as sentences: a verb, a file path, and prepositional
phrases. Flags must come before the verb.

  binpoke list data.bin from 0x100 for 64
  binpoke query data.bin
  binpoke resize data.bin with 4096`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSentence(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (YAML or TOML; default $"+config.EnvPath+" or the user config dir)")
	cmd.PersistentFlags().StringVar(&opts.colorMode, "color", "", "Color output: auto, always, never (overrides config)")

	opts.klogFlags = flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(opts.klogFlags)
	cmd.PersistentFlags().AddGoFlag(opts.klogFlags.Lookup("v"))
	cmd.PersistentFlags().AddGoFlag(opts.klogFlags.Lookup("vmodule"))

	// Everything after the verb belongs to the sentence.
	cmd.Flags().SetInterspersed(false)

	// help and completion are verbs of the sentence grammar, not cobra
	// commands; route them to the grammar so they are rejected like any
	// unknown verb.
	cmd.CompletionOptions.DisableDefaultCmd = true
	helpCmd := &cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSentence(cmd, append([]string{"help"}, args...))
		},
	}
	helpCmd.Flags().SetInterspersed(false)
	cmd.SetHelpCommand(helpCmd)

	cmd.AddCommand(versionCmd)

	return cmd
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.colorMode != "" {
		cfg.Color = o.colorMode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("v") && cfg.Verbosity > 0 {
		if err := o.klogFlags.Set("v", strconv.Itoa(cfg.Verbosity)); err != nil {
			return fmt.Errorf("setting verbosity: %w", err)
		}
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) runSentence(cmd *cobra.Command, args []string) error {
	table := o.table(cmd)

	if len(args) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), table.Usage("binpoke"))
		return errUsage
	}

	return table.Run(args)
}

// absolutePath makes the command path absolute before run sees it. Views are
// opened on the OS filesystem rooted at "/".
func absolutePath(run command.Handler) command.Handler {
	return func(c *command.Command) error {
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return fmt.Errorf("resolving path %s: %w", c.Path, err)
		}
		klog.V(2).InfoS("dispatching", "verb", c.Verb, "path", abs)
		c.Path = abs
		return run(c)
	}
}

// table builds the verb table for this invocation's output and settings.
func (o *rootOptions) table(cmd *cobra.Command) command.Table {
	out := cmd.OutOrStdout()
	runner, err := verbs.New(verbs.Config{
		Opener:    fileview.NewOpener(osfs.New("/"), o.cfg.Mmap),
		Out:       out,
		Formatter: listing.NewFormatter(listing.NewStyles(colorEnabled(o.cfg.Color, out))),
	})
	if err != nil {
		// Opener and Out are always set above.
		panic(err)
	}
	table := runner.Table()
	for i := range table {
		table[i].Run = absolutePath(table[i].Run)
	}
	return table
}

// colorEnabled decides whether listings written to out are colored.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // "auto"
		// Color only a terminal, and only if NO_COLOR is not set
		f, ok := out.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != "" {
			return false
		}
		return !color.NoColor
	}
}
