package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bawdo/quarry/config"
	"github.com/bawdo/quarry/connection"
	"github.com/bawdo/quarry/visitors"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Engine     string
	DSN        string
	LogLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand creates the quarry command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "quarry",
		Short:         "Build, render and run SQL queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVarP(&opts.Engine, "engine", "e", "", "SQL dialect (postgres, mysql, sqlite, sqlserver)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database connection string")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))

	return cmd
}

// load resolves the configuration and builds the logger. Flags win over
// the environment and the config file. Postgres is the default dialect.
func (o *RootOptions) load(logOut io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.Engine != "" {
		cfg.Engine = o.Engine
	}
	if o.DSN != "" {
		cfg.DSN = o.DSN
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if cfg.Engine == "" {
		cfg.Engine = visitors.Postgres
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = zerolog.New(zerolog.ConsoleWriter{Out: logOut, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return nil
}

// renderer returns a render-only connection for the configured dialect.
func (o *RootOptions) renderer() (*connection.Connection, error) {
	return connection.ForDialect(o.cfg.Engine,
		connection.WithLogger(o.logger),
		connection.WithVisitorOptions(o.cfg.VisitorOptions()...),
	)
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
