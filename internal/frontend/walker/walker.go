// Package walker traverses Tonic syntax trees and dispatches registered
// handlers by node kind.
package walker

import (
	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend/ast"
)

// Handler is called once for every visited node of its registered kind
type Handler func(node ast.Node)

// Options configures a Walker
type Options struct {
	Logger *tnclog.Logger // Defaults to the package default logger
}

// Walker visits nodes depth-first in field order. A Walker is not safe for
// concurrent use; handlers must not call Walk on the same Walker.
type Walker struct {
	handlers map[ast.Kind]Handler
	stack    []ast.Node
	visited  int
	logger   *tnclog.Logger
}

// New creates a walker with no handlers
func New() *Walker {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a walker with the given options
func NewWithOptions(opts Options) *Walker {
	if opts.Logger == nil {
		opts.Logger = tnclog.GetDefault()
	}
	return &Walker{
		handlers: make(map[ast.Kind]Handler),
		logger:   opts.Logger.WithField("component", "walker"),
	}
}

// Register sets the handler for kind, replacing any previous one
func (w *Walker) Register(kind ast.Kind, handler Handler) {
	if handler == nil {
		delete(w.handlers, kind)
		return
	}
	w.handlers[kind] = handler
}

// Handle registers a typed handler for the node type T
//
//	walker.Handle(w, func(fn *ast.FunctionDeclaration) {
//		fmt.Println(fn.Name.Statement)
//	})
//
// When T is an interface type, such as ast.Node, fn is registered for every
// kind and runs for each node that implements T.
func Handle[T ast.Node](w *Walker, fn func(T)) {
	handler := func(node ast.Node) {
		if typed, ok := node.(T); ok {
			fn(typed)
		}
	}

	var zero T
	if any(zero) == nil {
		for _, kind := range ast.Kinds() {
			w.Register(kind, handler)
		}
		return
	}
	w.Register(zero.Kind(), handler)
}

// Walk visits node and everything below it. For each node the handler for
// its kind runs first, then its children are walked with the node on the
// visitation stack.
func (w *Walker) Walk(node ast.Node) {
	if ast.IsNil(node) {
		return
	}
	root := len(w.stack) == 0
	if root {
		w.visited = 0
	}

	w.walk(node)

	if root {
		w.logger.Debug("Walk completed", tnclog.Fields{
			"root":  node.Kind().String(),
			"nodes": w.visited,
		})
	}
}

func (w *Walker) walk(node ast.Node) {
	w.visited++
	if handler, ok := w.handlers[node.Kind()]; ok {
		handler(node)
	}

	w.stack = append(w.stack, node)
	for _, child := range ast.Children(node) {
		w.walk(child.Node)
	}
	w.stack = w.stack[:len(w.stack)-1]
}

// Parent returns the node enclosing the one being handled, or nil at the root
func (w *Walker) Parent() ast.Node {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// Depth returns the number of nodes on the visitation stack
func (w *Walker) Depth() int {
	return len(w.stack)
}
