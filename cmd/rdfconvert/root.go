package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/geoknoesis/rdf-convert/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// Build the cobra command that handles our command line tool.
func rootCommand() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "rdfconvert COMMAND [args]",
		Short:         "Convert XML and JSON documents into RDF triples",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	addGlobalFlags(rootCmd.PersistentFlags(), g)

	rootCmd.AddCommand(
		convertCmd(g),
		rewriteCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return rootCmd
}

func addGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVar(&g.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
}

// load reads .env, the config file and the environment, then applies the
// global flags. The logger writes to the command's error stream.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, hclog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg.LogLevel), nil
}

func newLogger(w io.Writer, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "rdfconvert",
		Level:  hclog.LevelFromString(level),
		Output: w,
	})
}

func Execute() int {
	rootCmd := rootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
