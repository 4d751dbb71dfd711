package ref

import "fmt"

// OwnerlessRefError reports a ref descriptor produced outside any active
// render execution. It is fatal to the commit that tried to attach it and
// carries the slot name so the offending declaration site can be found.
type OwnerlessRefError struct {
	Slot string
}

func (e *OwnerlessRefError) Error() string {
	return fmt.Sprintf("ref: slot %q has no owner; refs can only be declared while a render is executing", e.Slot)
}

// Attach points d at inst.
//
// Named refs write the owner's registry, silently overwriting whatever
// stale value the slot held. Callback refs invoke the handler exactly once
// with inst; the handler's panics are not recovered here, they surface to
// whoever drove the commit. Attach never schedules new work.
func Attach(d Descriptor, inst Instance) error {
	if d.IsZero() {
		return nil
	}
	if d.owner == nil {
		return &OwnerlessRefError{Slot: d.SlotName()}
	}
	switch d.kind {
	case KindNamed:
		d.owner.refs[d.slot.name] = inst
	case KindCallback:
		d.cb.invoke(inst)
	}
	d.owner.live.Add(d)
	return nil
}

// Detach clears d's attachment. Named slots are deleted, a no-op when
// absent. A live callback attachment gets exactly one handler call with
// nil; detaching an attachment that is not live does nothing, so handlers
// never see a duplicate nil. The designated instance itself is never
// touched, its lifetime belongs to the tree.
func Detach(d Descriptor) {
	if d.IsZero() || d.owner == nil {
		return
	}
	if !d.owner.live.Contains(d) {
		if d.kind == KindNamed {
			delete(d.owner.refs, d.slot.name)
		}
		return
	}
	d.owner.live.Remove(d)
	switch d.kind {
	case KindNamed:
		delete(d.owner.refs, d.slot.name)
	case KindCallback:
		d.cb.invoke(nil)
	}
}
