package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/plugins/policy"
	"github.com/bawdo/quarry/plugins/softdelete"
	"github.com/bawdo/quarry/statement"
)

var errDocument = errors.New("invalid query document")

// document is a query described in YAML. Exactly one of Select, Insert,
// Update or Delete must be set.
//
//	types: {id: integer}
//	select:
//	  from: articles
//	  as: a
//	  columns: [a.id, a.title]
//	  where: {a.published: true, "a.views >": 10}
//	  order: [a.id desc]
//	  limit: 20
type document struct {
	Types      map[string]string `yaml:"types"`
	Binds      map[string]any    `yaml:"binds"`
	SoftDelete *softDeleteDoc    `yaml:"softdelete"`
	Policy     *policyDoc        `yaml:"policy"`

	Select *selectDoc `yaml:"select"`
	Insert *insertDoc `yaml:"insert"`
	Update *updateDoc `yaml:"update"`
	Delete *deleteDoc `yaml:"delete"`
}

type softDeleteDoc struct {
	Column string   `yaml:"column"`
	Tables []string `yaml:"tables"`
}

// policyDoc scopes every statement to column = value and rejects
// statements touching a denied table.
type policyDoc struct {
	Column string   `yaml:"column"`
	Value  any      `yaml:"value"`
	Tables []string `yaml:"tables"`
	Deny   []string `yaml:"deny"`
}

type joinDoc struct {
	Table string `yaml:"table"`
	As    string `yaml:"as"`
	Type  string `yaml:"type"`
	On    string `yaml:"on"`
}

type selectDoc struct {
	From     string         `yaml:"from"`
	As       string         `yaml:"as"`
	Columns  []string       `yaml:"columns"`
	Distinct bool           `yaml:"distinct"`
	Joins    []joinDoc      `yaml:"joins"`
	Where    map[string]any `yaml:"where"`
	WhereRaw []string       `yaml:"where_raw"`
	Group    []string       `yaml:"group"`
	Order    []string       `yaml:"order"`
	Limit    *int           `yaml:"limit"`
	Offset   *int           `yaml:"offset"`
}

type conflictDoc struct {
	Columns []string       `yaml:"columns"`
	Update  map[string]any `yaml:"update"`
}

type insertDoc struct {
	Into       string       `yaml:"into"`
	Columns    []string     `yaml:"columns"`
	Values     []any        `yaml:"values"`
	OnConflict *conflictDoc `yaml:"on_conflict"`
	Returning  []string     `yaml:"returning"`
}

type updateDoc struct {
	Table     string         `yaml:"table"`
	As        string         `yaml:"as"`
	Set       map[string]any `yaml:"set"`
	Where     map[string]any `yaml:"where"`
	WhereRaw  []string       `yaml:"where_raw"`
	Returning []string       `yaml:"returning"`
}

type deleteDoc struct {
	From      string         `yaml:"from"`
	As        string         `yaml:"as"`
	Where     map[string]any `yaml:"where"`
	WhereRaw  []string       `yaml:"where_raw"`
	Returning []string       `yaml:"returning"`
}

// builder is the part of the manager API the commands need.
type builder interface {
	SQL() (string, error)
	Execute(ctx context.Context) (*statement.Statement, error)
	ValueBinder() *binder.ValueBinder
	Err() error
}

func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errDocument, err)
	}
	n := 0
	for _, set := range []bool{doc.Select != nil, doc.Insert != nil, doc.Update != nil, doc.Delete != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: expected exactly one of select, insert, update or delete", errDocument)
	}
	return &doc, nil
}

// build turns the document into a manager bound to exec.
func (d *document) build(exec managers.Executor) (builder, error) {
	var b builder
	switch {
	case d.Select != nil:
		b = d.buildSelect(exec)
	case d.Insert != nil:
		b = d.buildInsert(exec)
	case d.Update != nil:
		b = d.buildUpdate(exec)
	default:
		b = d.buildDelete(exec)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// transformers hands the document's plugins to use. Soft-delete applies
// to SELECT and UPDATE; the policy applies to every statement but INSERT.
func (d *document) transformers(use func(plugins.Transformer)) {
	if d.SoftDelete != nil {
		use(softdelete.New(d.softDelete()...))
	}
	if d.Policy != nil {
		use(d.scopePolicy())
	}
}

func (d *document) scopePolicy() *policy.Policy {
	var opts []policy.Option
	if len(d.Policy.Tables) > 0 {
		opts = append(opts, policy.OnTables(d.Policy.Tables...))
	}
	if len(d.Policy.Deny) > 0 {
		opts = append(opts, policy.Deny(d.Policy.Deny...))
	}
	return policy.Scope(d.Policy.Column, d.Policy.Value, opts...)
}

func (d *document) softDelete() []softdelete.Option {
	var opts []softdelete.Option
	if d.SoftDelete.Column != "" {
		opts = append(opts, softdelete.WithColumn(d.SoftDelete.Column))
	}
	if len(d.SoftDelete.Tables) > 0 {
		opts = append(opts, softdelete.WithTables(d.SoftDelete.Tables...))
	}
	return opts
}

func (d *document) buildSelect(exec managers.Executor) *managers.SelectManager {
	s := d.Select
	m := managers.NewSelect(exec).SetDefaultTypes(d.Types).From(tableArg(s.From, s.As))
	if len(s.Columns) > 0 {
		m.Select(strings2any(s.Columns)...)
	}
	if s.Distinct {
		m.Distinct()
	}
	for _, j := range s.Joins {
		table := tableArg(j.Table, j.As)
		switch strings.ToLower(j.Type) {
		case "left":
			m.LeftJoin(table, j.On)
		case "right":
			m.RightJoin(table, j.On)
		case "cross":
			m.CrossJoin(table)
		default:
			m.InnerJoin(table, j.On)
		}
	}
	if len(s.Where) > 0 {
		m.Where(conditions.Cond(s.Where))
	}
	for _, raw := range s.WhereRaw {
		m.Where(raw)
	}
	if len(s.Group) > 0 {
		m.Group(strings2any(s.Group)...)
	}
	m.Order(orderArgs(s.Order)...)
	if s.Limit != nil {
		m.Limit(*s.Limit)
	}
	if s.Offset != nil {
		m.Offset(*s.Offset)
	}
	for _, name := range d.bindNames() {
		m.Bind(name, d.Binds[name])
	}
	d.transformers(func(t plugins.Transformer) { m.Use(t) })
	return m
}

func (d *document) buildInsert(exec managers.Executor) *managers.InsertManager {
	s := d.Insert
	m := managers.NewInsert(exec).SetDefaultTypes(d.Types).Into(s.Into).Insert(s.Columns).Values(s.Values...)
	if len(s.Returning) > 0 {
		m.Returning(strings2any(s.Returning)...)
	}
	if c := s.OnConflict; c != nil {
		oc := m.OnConflict(strings2any(c.Columns)...)
		if len(c.Update) > 0 {
			oc.DoUpdateSet(c.Update)
		} else {
			oc.DoNothing()
		}
	}
	for _, name := range d.bindNames() {
		m.Bind(name, d.Binds[name])
	}
	return m
}

func (d *document) buildUpdate(exec managers.Executor) *managers.UpdateManager {
	s := d.Update
	m := managers.NewUpdate(exec).SetDefaultTypes(d.Types).Table(tableArg(s.Table, s.As)).SetMap(s.Set)
	if len(s.Where) > 0 {
		m.Where(conditions.Cond(s.Where))
	}
	for _, raw := range s.WhereRaw {
		m.Where(raw)
	}
	if len(s.Returning) > 0 {
		m.Returning(strings2any(s.Returning)...)
	}
	for _, name := range d.bindNames() {
		m.Bind(name, d.Binds[name])
	}
	d.transformers(func(t plugins.Transformer) { m.Use(t) })
	return m
}

func (d *document) buildDelete(exec managers.Executor) *managers.DeleteManager {
	s := d.Delete
	m := managers.NewDelete(exec).SetDefaultTypes(d.Types).From(tableArg(s.From, s.As))
	if len(s.Where) > 0 {
		m.Where(conditions.Cond(s.Where))
	}
	for _, raw := range s.WhereRaw {
		m.Where(raw)
	}
	if len(s.Returning) > 0 {
		m.Returning(strings2any(s.Returning)...)
	}
	for _, name := range d.bindNames() {
		m.Bind(name, d.Binds[name])
	}
	if d.Policy != nil {
		m.Use(d.scopePolicy())
	}
	return m
}

func (d *document) bindNames() []string {
	names := make([]string, 0, len(d.Binds))
	for name := range d.Binds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tableArg(name, alias string) any {
	if alias == "" {
		return name
	}
	return map[string]string{alias: name}
}

func strings2any(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// orderArgs turns "col" and "col desc" entries into Order arguments.
func orderArgs(entries []string) []any {
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		f := strings.Fields(e)
		switch len(f) {
		case 0:
			continue
		case 2:
			out = append(out, map[string]string{f[0]: f[1]})
		default:
			out = append(out, e)
		}
	}
	return out
}
