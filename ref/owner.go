package ref

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

var ownerIDs atomic.Uint64

// Owner is the ref bookkeeping for one component instance. It exists from
// the moment the instance is constructed until the instance is destroyed,
// and its registry is present (never nil) for that whole window, empty or
// not.
//
// Ownership is assigned to the declaring owner, not the structural parent:
// a ref declared on a deeply nested child still lands here if this owner's
// render produced the declaration.
type Owner struct {
	id   uint64
	refs map[string]Instance
	live mapset.Set[Descriptor]

	// work > 0 while this owner's render or one of its lifecycle hooks is
	// executing. Only then may descriptors be attributed to it.
	work int
}

// NewOwner allocates an owner with a fresh identity. Identities are
// distinct per remount; a remounted component gets a new owner.
func NewOwner() *Owner {
	return &Owner{
		id:   ownerIDs.Add(1),
		refs: map[string]Instance{},
		live: mapset.NewThreadUnsafeSet[Descriptor](),
	}
}

func (o *Owner) ID() uint64 { return o.id }

// Refs is the live registry view: slot name to currently attached
// instance. It is defined and iterable before the first attach and stays
// the same map for the owner's whole life.
func (o *Owner) Refs() map[string]Instance { return o.refs }

// Ref looks a slot up with the same key coercion as SlotOf, so Ref(1) and
// Ref("1") hit the same entry.
func (o *Owner) Ref(key any) (Instance, bool) {
	inst, ok := o.refs[coerceKey(key)]
	return inst, ok
}

// BeginWork marks the start of the owner's render or lifecycle hook
// execution. Engines call this; owner code does not.
func (o *Owner) BeginWork() { o.work++ }

// EndWork closes the window opened by BeginWork.
func (o *Owner) EndWork() { o.work-- }

// Active reports whether descriptors constructed right now may be
// attributed to this owner.
func (o *Owner) Active() bool { return o.work > 0 }

// LiveCount reports how many attachments the owner currently holds.
func (o *Owner) LiveCount() int { return o.live.Cardinality() }

// Teardown detaches every attachment the owner still holds and empties
// the registry. The engine calls it when the owner's instance is removed;
// positions the removal walk already detached are gone from the live set,
// so no handler observes a second nil.
func (o *Owner) Teardown() {
	for _, d := range o.live.ToSlice() {
		Detach(d)
	}
	o.live.Clear()
	for k := range o.refs {
		delete(o.refs, k)
	}
}
