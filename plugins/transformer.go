// Package plugins defines the Transformer interface for AST middleware.
// Managers run their transformers, in registration order, over a copy of
// the statement right before it is rendered.
package plugins

import "github.com/bawdo/quarry/nodes"

// Transformer is the interface that AST transformation plugins implement.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error)
	TransformInsert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	return c, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}

// Pipeline is an ordered list of transformers. Each method stops at the
// first transformer returning an error.
type Pipeline []Transformer

// Select runs every TransformSelect in order.
func (p Pipeline) Select(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	var err error
	for _, t := range p {
		if core, err = t.TransformSelect(core); err != nil {
			return nil, err
		}
	}
	return core, nil
}

// Insert runs every TransformInsert in order.
func (p Pipeline) Insert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	var err error
	for _, t := range p {
		if stmt, err = t.TransformInsert(stmt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// Update runs every TransformUpdate in order.
func (p Pipeline) Update(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	var err error
	for _, t := range p {
		if stmt, err = t.TransformUpdate(stmt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// Delete runs every TransformDelete in order.
func (p Pipeline) Delete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	var err error
	for _, t := range p {
		if stmt, err = t.TransformDelete(stmt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}
