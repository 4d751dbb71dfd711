package ref

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Slot is the interned identifier for a named ref. Keys are normalized to
// their string form before interning, so slot 1 and slot "1" collide on
// purpose. The xxhash sum is precomputed once so descriptor comparison and
// set membership work on the interned identifier instead of rehashing the
// name.
type Slot struct {
	name string
	sum  uint64
}

// SlotOf normalizes key and interns it.
func SlotOf(key any) Slot {
	name := coerceKey(key)
	return Slot{name: name, sum: xxhash.Sum64String(name)}
}

// coerceKey turns a slot key into its canonical string form. Numeric keys
// become their decimal representation.
func coerceKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int8:
		return strconv.FormatInt(int64(k), 10)
	case int16:
		return strconv.FormatInt(int64(k), 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint:
		return strconv.FormatUint(uint64(k), 10)
	case uint8:
		return strconv.FormatUint(uint64(k), 10)
	case uint16:
		return strconv.FormatUint(uint64(k), 10)
	case uint32:
		return strconv.FormatUint(uint64(k), 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

func (s Slot) Name() string { return s.name }

func (s Slot) Sum64() uint64 { return s.sum }

func (s Slot) String() string { return s.name }
