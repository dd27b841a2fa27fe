package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/plugins/policy"
	"github.com/bawdo/quarry/plugins/softdelete"
)

// pluginEntry is an enabled plugin.
type pluginEntry struct {
	name    string
	factory func() plugins.Transformer // fresh instance per render
	status  func() string
}

// pluginRegistry holds the enabled plugins in registration order.
type pluginRegistry struct {
	entries []pluginEntry
}

// register adds or replaces a plugin by name.
func (r *pluginRegistry) register(entry pluginEntry) {
	for i, e := range r.entries {
		if e.name == entry.name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// deregister removes a plugin by name. Returns false if not found.
func (r *pluginRegistry) deregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *pluginRegistry) deregisterAll() {
	r.entries = nil
}

func (r *pluginRegistry) get(name string) (pluginEntry, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return pluginEntry{}, false
}

func (r *pluginRegistry) names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// applyTo hands a fresh transformer from every plugin to use.
func (r *pluginRegistry) applyTo(use func(plugins.Transformer)) {
	for _, entry := range r.entries {
		use(entry.factory())
	}
}

// pluginConfigurer is a plugin that can be enabled with the plugin command.
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}

// configureSoftdelete accepts three forms:
//
//	plugin softdelete                          deleted_at on every table
//	plugin softdelete removed_at on users posts
//	plugin softdelete users.deleted_at, posts.removed_at
func configureSoftdelete(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var opts []softdelete.Option
	var status string

	switch {
	case strings.Contains(rest, "."):
		var pairs []string
		for _, pair := range strings.Split(rest, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			dot := strings.IndexByte(pair, '.')
			if dot <= 0 || dot == len(pair)-1 {
				return fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(pair[:dot], pair[dot+1:]))
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		status = strings.Join(pairs, ", ")

	case strings.Contains(strings.ToLower(rest), " on "):
		idx := strings.Index(strings.ToLower(rest), " on ")
		col := strings.TrimSpace(rest[:idx])
		tables := strings.Fields(rest[idx+4:])
		if col == "" || len(tables) == 0 {
			return errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")
		}
		opts = append(opts, softdelete.WithColumn(col), softdelete.WithTables(tables...))
		status = fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tables, ", "))

	case rest != "":
		col := strings.Fields(rest)[0]
		opts = append(opts, softdelete.WithColumn(col))
		status = "column: " + col

	default:
		status = "column: deleted_at"
	}

	s.plugins.register(pluginEntry{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  func() string { return status },
	})
	_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (%s)\n", status)
	return nil
}

// configureScope accepts "<column> = <value> [on <table1> [table2 ...]]".
func configureScope(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var tables []string
	if idx := strings.Index(strings.ToLower(rest), " on "); idx >= 0 {
		tables = strings.Fields(rest[idx+4:])
		rest = strings.TrimSpace(rest[:idx])
	}
	eq := strings.IndexByte(rest, '=')
	if eq <= 0 {
		return errors.New("usage: plugin scope <column> = <value> [on <table1> ...]")
	}
	col := strings.TrimSpace(rest[:eq])
	raw := strings.TrimSpace(rest[eq+1:])
	val := parseValue(raw)

	var opts []policy.Option
	status := fmt.Sprintf("%s = %s", col, raw)
	if len(tables) > 0 {
		opts = append(opts, policy.OnTables(tables...))
		status += " on " + strings.Join(tables, ", ")
	}

	s.plugins.register(pluginEntry{
		name:    "scope",
		factory: func() plugins.Transformer { return policy.Scope(col, val, opts...) },
		status:  func() string { return status },
	})
	_, _ = fmt.Fprintf(s.out, "  Scope enabled (%s)\n", status)
	return nil
}
