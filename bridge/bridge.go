// Package bridge lets two independently operating reconciler engines
// mount subtrees into each other's host nodes while each keeps applying
// its own ref attach/detach contract inside its own subtree.
package bridge

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/refparty/ref"
	"github.com/delaneyj/refparty/vtree"
)

var ErrNilContainer = errors.New("bridge: nil container")

// Handle identifies one bridged subtree.
type Handle struct {
	owner     *ref.Owner
	container *vtree.HostNode
	mounted   bool
}

// Owner returns the outer owner the subtree was mounted on behalf of.
func (h *Handle) Owner() *ref.Owner { return h.owner }

// Bridge pairs an outer engine with the inner engine that manages the
// bridged subtrees. It carries no shared mutable ref state between the
// two; the handle set exists only so leaks are countable.
type Bridge struct {
	outer, inner *vtree.Engine
	handles      mapset.Set[*Handle]
}

func New(outer, inner *vtree.Engine) *Bridge {
	return &Bridge{
		outer:   outer,
		inner:   inner,
		handles: mapset.NewThreadUnsafeSet[*Handle](),
	}
}

// Mount renders el into container as an independent root of the inner
// engine, on behalf of owner (typically from owner's mount hook). Refs
// declared by owners inside the subtree resolve against those owners; a
// ref carried by el itself resolves against whoever declared it, even
// across the engine boundary. done, when non-nil, runs after the mount
// commit.
//
// Nothing ties the subtree's lifetime to owner: unmounting owner without
// calling Unmount leaks the subtree and its registries.
func (b *Bridge) Mount(owner *ref.Owner, el vtree.Element, container *vtree.HostNode, done func()) (*Handle, error) {
	if container == nil {
		return nil, ErrNilContainer
	}
	if err := b.inner.Render(el, container); err != nil {
		return nil, fmt.Errorf("bridge: mount failed: %w", err)
	}
	h := &Handle{owner: owner, container: container, mounted: true}
	b.handles.Add(h)
	if done != nil {
		done()
	}
	return h, nil
}

// Unmount tears the bridged subtree down via the inner engine and reports
// whether something was actually mounted there. Idempotent.
func (b *Bridge) Unmount(h *Handle) bool {
	if h == nil || !h.mounted {
		return false
	}
	h.mounted = false
	b.handles.Remove(h)
	return b.inner.Unmount(h.container)
}

// Outstanding reports how many bridged subtrees are still mounted.
func (b *Bridge) Outstanding() int {
	return b.handles.Cardinality()
}
