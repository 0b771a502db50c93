package spatial

import (
	"errors"

	"github.com/solidkit/meshcore"
)

const (
	OctreeMaxDepth     = 21
	OctreeMaxLeafItems = 100
)

var (
	ErrOctreeItemNotInserted = errors.New("item not inserted")
	ErrOctreeCannotSplitNode = errors.New("cannot split node")
)

type Octree struct {
	nodes map[uint64]*OctreeNode
	items []meshcore.IntersectsAABB
}

// Construct a bounded octree.
func NewOctree(aabb meshcore.AABB) *Octree {
	return &Octree{
		nodes: map[uint64]*OctreeNode{1: NewOctreeNode(1, aabb)},
		items: make([]meshcore.IntersectsAABB, 0),
	}
}

// Insert an item into the octree.
func (o *Octree) Insert(item meshcore.IntersectsAABB) error {
	var code uint64

	codes := []uint64{}
	queue := []uint64{1}
	index := len(o.items)

	for len(queue) > 0 {
		code, queue = queue[0], queue[1:]
		node := o.nodes[code]

		if item.IntersectsAABB(node.aabb) {
			if node.isLeaf {
				codes = append(codes, code)
			} else {
				children := node.Children()
				queue = append(queue, children...)
			}
		}
	}

	if len(codes) == 0 {
		return ErrOctreeItemNotInserted
	}

	o.items = append(o.items, item)

	for _, code := range codes {
		node := o.nodes[code]
		node.items = append(node.items, index)

		if node.shouldSplit() {
			o.Split(code)
		}
	}

	return nil
}

// Split a leaf octree node into its eight octant children.
func (o *Octree) Split(code uint64) error {
	node := o.nodes[code]

	if !node.canSplit() {
		return ErrOctreeCannotSplitNode
	}

	for octant, childCode := range node.Children() {
		aabb := node.aabb.Octant(octant)
		childNode := NewOctreeNode(childCode, aabb)

		for _, index := range node.items {
			if o.items[index].IntersectsAABB(aabb) {
				childNode.items = append(childNode.items, index)
			}
		}

		o.nodes[childCode] = childNode
	}

	clear(node.items)
	node.isLeaf = false

	return nil
}

// Query the octree for the indices of items overlapping query's bounding
// volume. Descends only into nodes whose own AABB overlaps query, then
// filters that node's items against query exactly when query is itself an
// AABB (nodes may hold items that only partially overlap their own bounds).
// Any other query kind filters items against the node's bounds only.
func (o *Octree) Query(query meshcore.IntersectsAABB) []int {
	seen := make(map[int]bool)
	var found []int

	box, isBox := query.(meshcore.AABB)

	queue := []uint64{1}

	for len(queue) > 0 {
		var code uint64
		code, queue = queue[0], queue[1:]
		node := o.nodes[code]

		if !nodeIntersects(node, query) {
			continue
		}

		if node.isLeaf {
			bounds := node.aabb
			if isBox {
				bounds = box
			}

			for _, index := range node.items {
				if !seen[index] && o.items[index].IntersectsAABB(bounds) {
					seen[index] = true
					found = append(found, index)
				}
			}
		} else {
			queue = append(queue, node.Children()...)
		}
	}

	return found
}

// Item returns a previously inserted item by its index (as returned in
// Query results).
func (o *Octree) Item(index int) meshcore.IntersectsAABB {
	return o.items[index]
}

// nodeIntersects reports whether a node's own bounding volume overlaps an
// arbitrary IntersectsAABB query: an AABB query uses the AABB/AABB overlap
// test, any other query is asked whether it intersects the node's AABB.
func nodeIntersects(node *OctreeNode, query meshcore.IntersectsAABB) bool {
	if aabb, ok := query.(meshcore.AABB); ok {
		return node.aabb.IntersectsAABB(aabb)
	}

	return query.IntersectsAABB(node.aabb)
}

type OctreeNode struct {
	items  []int
	aabb   meshcore.AABB
	code   uint64
	isLeaf bool
}

// Construct a leaf OctreeNode.
func NewOctreeNode(code uint64, aabb meshcore.AABB) *OctreeNode {
	return &OctreeNode{
		items:  make([]int, 0),
		aabb:   aabb,
		code:   code,
		isLeaf: true,
	}
}

// Compute the depth from the code.
func (o *OctreeNode) Depth() int {
	for depth := 0; depth <= OctreeMaxDepth; depth++ {
		if o.code>>(3*depth) == 1 {
			return depth
		}
	}

	panic("invalid octree code")
}

// Compute the children octant codes.
func (o *OctreeNode) Children() []uint64 {
	children := make([]uint64, 8)

	for octant := range children {
		children[octant] = o.code<<3 | uint64(octant)
	}

	return children
}

// Return true if the node can be split.
func (o *OctreeNode) canSplit() bool {
	return o.isLeaf && o.Depth() < OctreeMaxDepth
}

// Return true if the node should be split.
func (o *OctreeNode) shouldSplit() bool {
	return o.canSplit() && len(o.items) > OctreeMaxLeafItems
}
