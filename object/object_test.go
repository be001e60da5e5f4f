package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nilan/value"
)

func TestUpvalueOpenTracksLiveSlot(t *testing.T) {
	slot := value.Number(1)
	up := NewOpenUpvalue(&slot)
	assert.True(t, up.IsOpen())
	assert.Equal(t, value.Number(1), up.Get())

	slot = value.Number(2)
	assert.Equal(t, value.Number(2), up.Get(), "open upvalue observes writes through the stack slot")
}

func TestUpvalueCloseDetachesFromSlot(t *testing.T) {
	slot := value.Number(5)
	up := NewOpenUpvalue(&slot)
	up.Close()
	assert.False(t, up.IsOpen())
	assert.Equal(t, value.Number(5), up.Get())

	slot = value.Number(99)
	assert.Equal(t, value.Number(5), up.Get(), "closed upvalue no longer observes the original slot")

	up.Set(value.Number(7))
	assert.Equal(t, value.Number(7), up.Get())
}

func TestClassFindMethodDirectLookupOnly(t *testing.T) {
	base := NewClass("Base")
	base.Methods["greet"] = &Closure{Function: &Function{Name: "greet"}}
	sub := NewClass("Sub")

	_, ok := sub.FindMethod("greet")
	assert.False(t, ok, "FindMethod does not walk Superclass; OpInherit must have copied it in")

	sub.Methods["greet"] = base.Methods["greet"]
	sub.Superclass = base
	m, ok := sub.FindMethod("greet")
	assert.True(t, ok)
	assert.Equal(t, "greet", m.Function.Name)
}

func TestInstanceFieldStoresAssignedValue(t *testing.T) {
	class := NewClass("C")
	instance := NewInstance(class)
	instance.Fields["x"] = value.Number(1)
	v, ok := instance.Fields["x"]
	assert.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}
