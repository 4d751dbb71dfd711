package ref

// InstanceKind discriminates what a ref designates once attached.
type InstanceKind uint8

const (
	// Host marks a concrete host-platform node.
	Host InstanceKind = iota + 1
	// Composite marks a mounted component instance.
	Composite
)

// Instance is the concrete thing a ref resolves to: a host node or a
// component instance. The registry only ever holds a lookup handle to it;
// instance lifetime belongs to the tree, and detaching never destroys the
// instance.
type Instance interface {
	InstanceKind() InstanceKind
}
