package meshcore

// IntersectsAABB is implemented by anything that can be tested for overlap
// against an axis-aligned bounding box (used by the spatial index to store
// arbitrary items, notably faces).
type IntersectsAABB interface {
	IntersectsAABB(AABB) bool
}
