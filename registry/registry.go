// Package registry implements the prototype registry: a type name ->
// producer/metadata map organized as a rooted tree.
package registry

import (
	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/serialize"
)

// Producer creates a zero-valued entity of a prototype's type. Every
// registered prototype carries exactly one producer, used whenever
// the engine needs a fresh instance to discover a shape or to
// deserialize a row into.
type Producer func() serialize.Serializable

// Prototype is a node in the rooted type tree: a stable name, a
// producer, a nullable parent, and its direct children in attach
// order.
type Prototype struct {
	TypeName string
	Producer Producer
	Parent   *Prototype
	Children []*Prototype
}

// Registry is the type name -> Prototype map plus the tree it forms.
// It is not safe for concurrent use: callers own external mutual
// exclusion if they share a Registry across goroutines.
type Registry struct {
	byName map[string]*Prototype
	roots  []*Prototype
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Prototype)}
}

// Attach installs a node. parentTypeName may be empty, meaning the new
// prototype is itself a root.
func (r *Registry) Attach(typeName string, producer Producer, parentTypeName string) (*Prototype, error) {
	if _, exists := r.byName[typeName]; exists {
		return nil, errs.DuplicateTypeError{TypeName: typeName}
	}

	node := &Prototype{TypeName: typeName, Producer: producer}

	if parentTypeName != "" {
		parent, ok := r.byName[parentTypeName]
		if !ok {
			return nil, errs.UnknownParentError{TypeName: typeName, ParentName: parentTypeName}
		}

		node.Parent = parent
		parent.Children = append(parent.Children, node)
	} else {
		r.roots = append(r.roots, node)
	}

	r.byName[typeName] = node

	return node, nil
}

// Find looks a prototype up by name in O(1) expected time. A
// detached/unregistered name resolves to (nil, false).
func (r *Registry) Find(typeName string) (*Prototype, bool) {
	p, ok := r.byName[typeName]
	return p, ok
}

// Walk returns every prototype reachable from root (or from every
// root, if root is nil) in depth-first order. The returned slice is a
// snapshot: the walk itself does not hold any registry-internal state
// so it is safe to iterate repeatedly ("restartable, finite").
func (r *Registry) Walk(root *Prototype) []*Prototype {
	var out []*Prototype

	var visit func(n *Prototype)
	visit = func(n *Prototype) {
		out = append(out, n)
		for _, c := range n.Children {
			visit(c)
		}
	}

	if root != nil {
		visit(root)
		return out
	}

	for _, rt := range r.roots {
		visit(rt)
	}

	return out
}
