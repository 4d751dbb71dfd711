package ref_test

import (
	"testing"

	"github.com/delaneyj/refparty/ref"
	"github.com/stretchr/testify/assert"
)

func activeOwner() *ref.Owner {
	o := ref.NewOwner()
	o.BeginWork()
	return o
}

// descriptors only pick up an owner while that owner is executing
func TestDescriptorOwnerCapture(t *testing.T) {
	o := ref.NewOwner()

	outside := ref.Named(o, "early")
	assert.Nil(t, outside.Owner())

	o.BeginWork()
	inside := ref.Named(o, "ontime")
	o.EndWork()
	assert.Same(t, o, inside.Owner())

	after := ref.Named(o, "late")
	assert.Nil(t, after.Owner())

	assert.Nil(t, ref.Named(nil, "nobody").Owner())
}

func TestDescriptorEquality(t *testing.T) {
	o := activeOwner()
	defer o.EndWork()

	assert.True(t, ref.Named(o, "x").Equal(ref.Named(o, "x")))
	assert.True(t, ref.Named(o, 1).Equal(ref.Named(o, "1")))
	assert.False(t, ref.Named(o, "x").Equal(ref.Named(o, "y")))

	other := activeOwner()
	defer other.EndWork()
	assert.False(t, ref.Named(o, "x").Equal(ref.Named(other, "x")))

	cb := ref.NewCallback(func(ref.Instance) {})
	assert.True(t, ref.WithCallback(o, cb).Equal(ref.WithCallback(o, cb)))

	cb2 := ref.NewCallback(func(ref.Instance) {})
	assert.False(t, ref.WithCallback(o, cb).Equal(ref.WithCallback(o, cb2)))

	assert.False(t, ref.Named(o, "x").Equal(ref.WithCallback(o, cb)))
	assert.True(t, ref.Descriptor{}.Equal(ref.Descriptor{}))
	assert.True(t, ref.Descriptor{}.IsZero())
}
