package meshcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAABBFromBounds(t *testing.T) {
	box := NewAABBFromBounds(NewVector(0, 0, 0), NewVector(2, 4, 6))

	assert.Equal(t, NewVector(1, 2, 3), box.Center)
	assert.Equal(t, NewVector(1, 2, 3), box.HalfSize)
}

func TestAABBFromVectors(t *testing.T) {
	box := NewAABBFromVectors([]Vector{
		NewVector(-1, 0, 0),
		NewVector(1, 2, 0),
		NewVector(0, -2, 3),
	})

	assert.Equal(t, NewVector(-1, -2, 0), box.GetMinBound())
	assert.Equal(t, NewVector(1, 2, 3), box.GetMaxBound())
}

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(NewVector(0, 0, 0), NewVector(1, 1, 1))
	b := NewAABB(NewVector(1.5, 0, 0), NewVector(1, 1, 1))
	c := NewAABB(NewVector(10, 10, 10), NewVector(1, 1, 1))

	assert.True(t, a.IntersectsAABB(b))
	assert.False(t, a.IntersectsAABB(c))
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(NewVector(0, 0, 0), NewVector(1, 1, 1))
	b := NewAABB(NewVector(5, 0, 0), NewVector(1, 1, 1))

	union := a.Union(b)

	assert.Equal(t, NewVector(-1, -1, -1), union.GetMinBound())
	assert.Equal(t, NewVector(6, 1, 1), union.GetMaxBound())
}

func TestAABBOctant(t *testing.T) {
	box := NewAABB(NewVector(0, 0, 0), NewVector(2, 2, 2))

	octant := box.Octant(0)
	assert.Equal(t, NewVector(-1, -1, -1), octant.Center)
	assert.Equal(t, NewVector(1, 1, 1), octant.HalfSize)

	octant7 := box.Octant(7)
	assert.Equal(t, NewVector(1, 1, 1), octant7.Center)
}

func TestAABBBuffer(t *testing.T) {
	box := NewAABB(NewVector(0, 0, 0), NewVector(1, 1, 1))
	buffered := box.Buffer(0.5)

	assert.Equal(t, NewVector(1.5, 1.5, 1.5), buffered.HalfSize)
}
