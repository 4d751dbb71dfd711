package bridge_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/refparty/bridge"
	"github.com/delaneyj/refparty/ref"
	"github.com/delaneyj/refparty/vtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootOwner(t *testing.T, e *vtree.Engine, ctr *vtree.HostNode) *ref.Owner {
	t.Helper()
	ci, ok := e.Root(ctr).(*vtree.CompositeInstance)
	require.True(t, ok, "no composite mounted at container")
	return ci.Owner()
}

// layering component: mounts a span through the bridge on its own commit
// hook and tears it down on its own unmount hook
type layering struct {
	b      *bridge.Bridge
	target *vtree.HostNode

	h          *bridge.Handle
	mountErr   error
	doneSawRef bool

	spanBeforeUnmount bool
	spanAfterUnmount  bool
}

func (c *layering) Render(o *ref.Owner) vtree.Element { return vtree.H("div") }

func (c *layering) Mounted(o *ref.Owner) {
	c.h, c.mountErr = c.b.Mount(o,
		vtree.H("span").WithRef(ref.Named(o, "span")),
		c.target,
		func() {
			_, c.doneSawRef = o.Ref("span")
		})
}

func (c *layering) WillUnmount(o *ref.Owner) {
	_, c.spanBeforeUnmount = o.Ref("span")
	c.b.Unmount(c.h)
	_, c.spanAfterUnmount = o.Ref("span")
}

func TestCrossLayerSpanScenario(t *testing.T) {
	outer := vtree.New()
	inner := vtree.New()
	b := bridge.New(outer, inner)
	ctr := vtree.NewContainer()
	target := vtree.NewContainer()

	comp := &layering{b: b, target: target}
	require.NoError(t, outer.Render(vtree.C("layer", comp), ctr))
	require.NoError(t, comp.mountErr)
	assert.True(t, comp.doneSawRef, "done callback runs after the mount commit")

	o := rootOwner(t, outer, ctr)
	span, ok := o.Ref("span")
	require.True(t, ok, "outer owner declared the span, outer owner resolves it")
	assert.Equal(t, "span", span.(*vtree.HostNode).Tag)
	assert.True(t, inner.Mounted(target))
	assert.Equal(t, 1, b.Outstanding())

	require.True(t, outer.Unmount(ctr))
	assert.True(t, comp.spanBeforeUnmount)
	assert.False(t, comp.spanAfterUnmount, "span detaches when the hook unmounts the container")
	assert.False(t, inner.Mounted(target))
	assert.Equal(t, 0, b.Outstanding())
	assert.Empty(t, o.Refs())
}

// refs declared by subtree-internal owners never land on the outer owner
func TestSubtreeRefsResolveToSubtreeOwners(t *testing.T) {
	inner := vtree.New()
	b := bridge.New(vtree.New(), inner)
	target := vtree.NewContainer()

	widget := vtree.ComponentFunc(func(o *ref.Owner) vtree.Element {
		return vtree.H("input").WithRef(ref.Named(o, "w"))
	})

	outerOwner := ref.NewOwner()
	h, err := b.Mount(outerOwner, vtree.C("widget", widget), target, nil)
	require.NoError(t, err)
	assert.Same(t, outerOwner, h.Owner())

	wi := inner.Root(target).(*vtree.CompositeInstance)
	_, ok := wi.Owner().Ref("w")
	require.True(t, ok)
	assert.Empty(t, outerOwner.Refs())

	require.True(t, b.Unmount(h))
	assert.Empty(t, wi.Owner().Refs())
	assert.False(t, b.Unmount(h), "second unmount finds nothing")
}

// forgetting the handle leaks the subtree: nothing unmounts it for you
type forgetful struct {
	b      *bridge.Bridge
	target *vtree.HostNode
	h      *bridge.Handle
}

func (c *forgetful) Render(o *ref.Owner) vtree.Element { return vtree.H("div") }

func (c *forgetful) Mounted(o *ref.Owner) {
	c.h, _ = c.b.Mount(o, vtree.H("span"), c.target, nil)
}

func TestForgottenHandleLeaks(t *testing.T) {
	outer := vtree.New()
	inner := vtree.New()
	b := bridge.New(outer, inner)
	ctr := vtree.NewContainer()
	target := vtree.NewContainer()

	comp := &forgetful{b: b, target: target}
	require.NoError(t, outer.Render(vtree.C("layer", comp), ctr))
	require.True(t, outer.Unmount(ctr))

	assert.True(t, inner.Mounted(target), "bridged subtree survived the outer unmount")
	assert.Equal(t, 1, b.Outstanding())

	require.True(t, b.Unmount(comp.h))
	assert.False(t, inner.Mounted(target))
	assert.Equal(t, 0, b.Outstanding())
}

func TestMountErrors(t *testing.T) {
	b := bridge.New(vtree.New(), vtree.New())

	_, err := b.Mount(nil, vtree.H("div"), nil, nil)
	assert.ErrorIs(t, err, bridge.ErrNilContainer)

	// an ownerless ref inside the element surfaces from the inner commit
	idle := ref.NewOwner()
	_, err = b.Mount(idle, vtree.H("span").WithRef(ref.Named(idle, "x")), vtree.NewContainer(), nil)
	require.Error(t, err)
	var ownerless *ref.OwnerlessRefError
	assert.True(t, errors.As(err, &ownerless))
	assert.Equal(t, 0, b.Outstanding())
}
