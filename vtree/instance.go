package vtree

import "github.com/delaneyj/refparty/ref"

// HostNode stands in for the host platform's concrete node. The real host
// layer is an external collaborator; the engine only needs to create
// nodes and keep their child lists in step with the committed tree.
type HostNode struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*HostNode
}

// NewContainer allocates a detached host node to mount roots into.
func NewContainer() *HostNode {
	return &HostNode{Tag: "#container"}
}

func (n *HostNode) InstanceKind() ref.InstanceKind { return ref.Host }

// CompositeInstance is a mounted component. Its identity is stable across
// its own re-renders and distinct per remount; the owner lives and dies
// with it.
type CompositeInstance struct {
	name  string
	comp  Component
	owner *ref.Owner
}

func (c *CompositeInstance) InstanceKind() ref.InstanceKind { return ref.Composite }

func (c *CompositeInstance) Name() string { return c.name }

func (c *CompositeInstance) Owner() *ref.Owner { return c.owner }

// Refs is shorthand for Owner().Refs().
func (c *CompositeInstance) Refs() map[string]ref.Instance { return c.owner.Refs() }

// node is one committed tree position.
type node struct {
	el   Element
	desc ref.Descriptor // descriptor attached at this position, zero if none

	host *HostNode          // host and text positions
	comp *CompositeInstance // composite positions

	children []*node // host children
	rendered *node   // what the composite rendered, nil when it rendered nothing
}

func (n *node) instance() ref.Instance {
	if n.comp != nil {
		return n.comp
	}
	if n.host != nil {
		return n.host
	}
	return nil
}
