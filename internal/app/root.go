package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/andyballingall/srcfmt/internal/config"
	"github.com/andyballingall/srcfmt/internal/fsh"
	"github.com/andyballingall/srcfmt/internal/validator"
)

// Version is the current version of srcfmt, set at build time.
var Version = "dev"

// RootEnvVar names the environment variable holding the default project root.
const RootEnvVar = "SRCFMT_ROOT"

var LongDescription = `
srcfmt formats C/C++ and shader sources with clang-format.

By default it formats the files changed on the current git branch. Use --modified
for uncommitted changes, --all for everything under the format directories, or
name files and directories explicitly. Style comes from the project's
.clang-format file; files without one are left alone.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fsh.EnvProvider) *cobra.Command {
	var (
		debug    bool
		noColour bool
		modified bool
		all      bool
		watching bool
		inputs   pathsValue
		rootPath pathValue
		tool     toolValue
	)

	rootCmd := &cobra.Command{
		Use:           "srcfmt [paths...]",
		Short:         "Format C/C++ and shader files using clang-format",
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			root, err := projectRoot(string(rootPath), env)
			if err != nil {
				return err
			}

			cfg, err := config.Load(root, validator.NewSanthoshCompiler())
			if err != nil {
				return &ConfigLoadError{Root: root, Wrapped: err}
			}

			logger, closer, err := setupLogger(stderr, ll, root, env)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			if closer != nil {
				lazy.SetCloser(closer)
			}

			formatter := cfg.Tool
			if tool != "" {
				formatter = string(tool)
			}

			useColour := !noColour && isTerminal(stdout)
			lazy.SetInner(NewCLIManager(logger, root, cfg, formatter, stdout, useColour))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (modified || all) {
				return &PositionalArgsError{Args: args}
			}

			var explicit []string
			explicit = append(explicit, inputs...)
			explicit = append(explicit, args...)

			sel := Selection{
				Inputs:   explicit,
				Modified: modified,
				All:      all,
			}

			if watching {
				return lazy.Watch(cmd.Context(), sel, nil)
			}
			return lazy.Format(cmd.Context(), sel)
		},
	}

	flags := rootCmd.Flags()
	flags.VarP(&inputs, "input", "i", "Specific file or directory to format (repeatable)")
	flags.BoolVarP(&modified, "modified", "m", false, "Format only dirty files (modified, staged and untracked)")
	flags.BoolVarP(&all, "all", "a", false, "Format all files in the format directories")
	rootCmd.MarkFlagsMutuallyExclusive("input", "modified", "all")

	flags.VarP(&rootPath, "root", "r", "Project root (default $"+RootEnvVar+" or the working directory)")
	flags.Var(&tool, "tool", "Formatter executable (default from .srcfmt.yml, else clang-format)")
	flags.BoolVarP(&watching, "watch", "w", false, "Keep running and format files as they change")

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	return rootCmd
}

// projectRoot picks the root from the flag, then the environment, then the
// working directory, and checks it is a directory.
func projectRoot(flagValue string, env fsh.EnvProvider) (string, error) {
	root := flagValue
	if root == "" && env != nil {
		root = env.Get(RootEnvVar)
	}
	if root == "" {
		root = "."
	}

	abs, err := fsh.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidRootError{Path: abs, Wrapped: err}
	}
	if !info.IsDir() {
		return "", &InvalidRootError{Path: abs}
	}
	return abs, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
