package main

import (
	"sort"
	"strings"
)

// completionContext describes what kind of completion applies.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextNone                               // nothing to offer
	contextTableName                          // after from/join/update/...
	contextColumnRef                          // after select/where/order/...
	contextEngine                             // after engine
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
)

var engineNames = []string{"mysql", "postgres", "sqlite", "sqlserver"}

// replCompleter implements readline's AutoCompleter.
type replCompleter struct {
	sess *Session
}

// Do returns completion suffixes for line[:pos] and the length of the
// prefix being completed.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = filterPrefix(c.sess.tables, prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames, prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	}

	for _, cand := range candidates {
		newLine = append(newLine, []rune(cand[len(prefix):]+" "))
	}
	return newLine, len([]rune(prefix))
}

func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") || cmd.completer == nil {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

// completeColumnRef offers tables before a dot and "table.*" after it.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	if i := strings.IndexByte(prefix, '.'); i >= 0 {
		return filterPrefix([]string{prefix[:i] + ".*"}, prefix)
	}
	names := append([]string(nil), c.sess.tables...)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// filterPrefix returns the items starting with prefix, ignoring case.
func filterPrefix(items []string, prefix string) []string {
	lower := strings.ToLower(prefix)
	var out []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lower) {
			out = append(out, item)
		}
	}
	return out
}

// lastToken returns the text after the last space or comma.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " ,\t"); i >= 0 {
		return s[i+1:]
	}
	return s
}
