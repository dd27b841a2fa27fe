package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
)

const prompt = "quarry> "

// NewReplCommand creates the interactive shell command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Build and run queries interactively",
		Long: `Start an interactive shell for building queries one clause at a time.
The shell connects on start when a DSN is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runRepl(opts *RootOptions, out, errOut io.Writer) error {
	sess, err := NewSession(opts.cfg, opts.logger, out)
	if err != nil {
		return err
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	if opts.cfg.DSN != "" {
		if err := sess.Execute("connect"); err != nil {
			_, _ = fmt.Fprintf(errOut, "  Warning: connect failed: %v\n", err)
		}
	}

	_, _ = fmt.Fprintf(out, "quarry shell (%s), type 'help' for commands, 'exit' to quit\n", sess.cfg.Engine)
	loop(rl, sess, errOut)
	if sess.connected {
		_ = sess.conn.Close()
	}
	return nil
}

// lineReader is the part of readline the loop uses.
type lineReader interface {
	ReadLine() (string, error)
}

func loop(rl lineReader, sess *Session, errOut io.Writer) {
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			return
		}
		if err := sess.Execute(line); err != nil {
			_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".quarry_history")
}
