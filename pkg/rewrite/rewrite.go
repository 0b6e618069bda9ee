// Package rewrite holds the passes that run over a parsed tree before code
// generation. A pass never modifies its input; it returns a new tree that
// shares every unchanged subtree with the old one.
package rewrite

import (
	"errors"
	"fmt"

	"github.com/yaklabco/razorparse/pkg/syntax"
)

// ErrNilTree is returned when a pass is given no tree.
var ErrNilTree = errors.New("nil syntax tree")

// InvariantError reports a pass that produced a tree no longer covering the
// source exactly. It indicates a bug in the pass, not a problem with the
// input.
type InvariantError struct {
	Pass string
	Err  error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rewrite %s: %v", e.Pass, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// finish validates root against the tree's source and wraps it.
func finish(pass string, tree *syntax.Tree, root *syntax.Node) (*syntax.Tree, error) {
	if root == tree.Root {
		return tree, nil
	}
	if err := syntax.ValidateWidth(root, tree.Source.Len()); err != nil {
		return nil, &InvariantError{Pass: pass, Err: err}
	}
	return tree.WithRoot(root), nil
}
