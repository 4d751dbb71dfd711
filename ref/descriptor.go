package ref

// Kind tags the two descriptor variants.
type Kind uint8

const (
	// KindNamed resolves through the owner's registry under a slot name.
	KindNamed Kind = iota + 1
	// KindCallback resolves by invoking a handler with the instance.
	KindCallback
)

// Callback is the identity-bearing holder for a callback ref handler. Go
// functions are not comparable, so handler identity is the holder pointer:
// reuse one holder across renders to keep the same ref alive, allocate a
// fresh one to force a detach/attach cycle on every render.
type Callback struct {
	fn func(Instance)
}

func NewCallback(fn func(Instance)) *Callback {
	return &Callback{fn: fn}
}

// invoke runs the handler. Panics are deliberately not recovered; render
// time errors stay visible to whoever drove the commit.
func (c *Callback) invoke(inst Instance) {
	c.fn(inst)
}

// Descriptor is the declared ref intent at one tree position, captured
// together with the declaring owner. Descriptors are ephemeral: a render
// produces a new one at every position that declares a ref, and the zero
// value means the position declares none.
type Descriptor struct {
	kind  Kind
	slot  Slot
	cb    *Callback
	owner *Owner
}

// Named declares a named ref slot for owner. The owner must be mid
// execution (its render or one of its lifecycle hooks) when the
// descriptor is constructed; otherwise the descriptor is ownerless and
// attaching it fails with OwnerlessRefError.
func Named(owner *Owner, key any) Descriptor {
	d := Descriptor{kind: KindNamed, slot: SlotOf(key)}
	if owner != nil && owner.Active() {
		d.owner = owner
	}
	return d
}

// WithCallback declares a callback ref for owner, with the same ownership
// rule as Named.
func WithCallback(owner *Owner, cb *Callback) Descriptor {
	d := Descriptor{kind: KindCallback, cb: cb}
	if owner != nil && owner.Active() {
		d.owner = owner
	}
	return d
}

func (d Descriptor) Kind() Kind { return d.kind }

func (d Descriptor) Slot() Slot { return d.slot }

// Owner returns the declaring owner, or nil for an ownerless descriptor.
func (d Descriptor) Owner() *Owner { return d.owner }

// IsZero reports whether the position declared no ref at all.
func (d Descriptor) IsZero() bool { return d.kind == 0 }

// SlotName is the name carried by error reports: the slot for named refs,
// a placeholder for callback refs.
func (d Descriptor) SlotName() string {
	if d.kind == KindCallback {
		return "(callback)"
	}
	return d.slot.name
}

// Equal reports whether two descriptors declare the same ref: same kind,
// same slot or handler identity, same owner. Equal descriptors across
// successive renders need no detach/attach cycle.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.kind != other.kind || d.owner != other.owner {
		return false
	}
	switch d.kind {
	case KindNamed:
		return d.slot.sum == other.slot.sum && d.slot.name == other.slot.name
	case KindCallback:
		return d.cb == other.cb
	}
	return true
}
