package ref_test

import (
	"testing"

	"github.com/delaneyj/refparty/ref"
	"github.com/stretchr/testify/assert"
)

type stringerKey struct{ s string }

func (k stringerKey) String() string { return k.s }

// numeric-looking keys collapse onto their string form
func TestSlotCoercion(t *testing.T) {
	assert.Equal(t, "1", ref.SlotOf(1).Name())
	assert.Equal(t, "1", ref.SlotOf("1").Name())
	assert.Equal(t, "7", ref.SlotOf(uint8(7)).Name())
	assert.Equal(t, "-3", ref.SlotOf(int64(-3)).Name())
	assert.Equal(t, "logline", ref.SlotOf(stringerKey{"logline"}).Name())

	assert.Equal(t, ref.SlotOf(1), ref.SlotOf("1"))
}

func TestSlotInterning(t *testing.T) {
	a := ref.SlotOf("counter")
	b := ref.SlotOf("counter")
	assert.Equal(t, a.Sum64(), b.Sum64())
	assert.Equal(t, a, b)

	c := ref.SlotOf("other")
	assert.NotEqual(t, a.Sum64(), c.Sum64())
}
