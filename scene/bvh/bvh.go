package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Partitions with this many objects or fewer become leafs.
const MaxLeafObjects = 5

// Bvh node definition. Nodes are stored in a flat list owned by the Tree;
// branch nodes reference their children by index.
type Node struct {
	// Bounding box surrounding all objects below this node.
	BBox types.AABB

	// Child node indices. Both are -1 for leaf nodes.
	Left  int32
	Right int32

	// Objects stored in a leaf node.
	Leaf scene.Scene
}

// Returns true if this node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

// Tree statistics.
type Stats struct {
	Objects  int
	Nodes    int
	Leafs    int
	MaxDepth int
}

// An immutable bounding volume hierarchy. The root node is always stored at
// index 0. A nil *Tree is valid and misses every ray.
type Tree struct {
	nodes []Node
	stats Stats
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// Stats
	stats Stats
}

// Build a BVH over the scene objects. The scene is not modified; the tree
// keeps its own copy of the objects. Returns nil if the scene is empty.
func Build(sc *scene.Scene) *Tree {
	if sc == nil || sc.Len() == 0 {
		return nil
	}

	b := &builder{
		logger: log.New("bvh"),
		nodes:  make([]Node, 0, 2*sc.Len()/MaxLeafObjects+1),
		stats: Stats{
			Objects: sc.Len(),
		},
	}

	workList := make([]scene.Object, sc.Len())
	copy(workList, sc.Objects)

	start := time.Now()
	b.partition(workList, 0)
	b.stats.Nodes = len(b.nodes)
	b.logger.Debugf(
		"BVH tree build time: %d ms, objects: %d, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.Objects, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)

	return &Tree{
		nodes: b.nodes,
		stats: b.stats,
	}
}

// Partition worklist and return node index.
func (b *builder) partition(workList []scene.Object, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	// Calculate bounding box for node
	bbox := workList[0].Bound()
	for idx := 1; idx < len(workList); idx++ {
		bbox = types.Surrounding(bbox, workList[idx].Bound())
	}

	// Sort along the axis with the largest extent using min+max as a
	// proxy for the object centroid
	axis := bbox.LargestAxis()
	sort.SliceStable(workList, func(i, j int) bool {
		bi, bj := workList[i].Bound(), workList[j].Bound()
		return bi.Min[axis]+bi.Max[axis] < bj.Min[axis]+bj.Max[axis]
	})

	// Do we have few enough items for a leaf?
	if len(workList) <= MaxLeafObjects {
		return b.createLeaf(bbox, workList)
	}

	// Reserve a slot for this node so the root ends up at index 0
	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{})

	mid := len(workList) / 2
	leftIndex := b.partition(workList[:mid], depth+1)
	rightIndex := b.partition(workList[mid:], depth+1)

	b.nodes[nodeIndex] = Node{
		BBox:  types.Surrounding(b.nodes[leftIndex].BBox, b.nodes[rightIndex].BBox),
		Left:  leftIndex,
		Right: rightIndex,
	}
	return nodeIndex
}

// Append a leaf node containing all items in the work list. Returns the
// index to the node in the bvh node array.
func (b *builder) createLeaf(bbox types.AABB, workList []scene.Object) int32 {
	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		BBox:  bbox,
		Left:  -1,
		Right: -1,
		Leaf:  scene.Scene{Objects: workList},
	})

	b.stats.Leafs++
	return nodeIndex
}

// Get the tree statistics.
func (t *Tree) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return t.stats
}

// Get the box surrounding all objects in the tree.
func (t *Tree) Bound() (types.AABB, bool) {
	if t == nil {
		return types.AABB{}, false
	}
	return t.nodes[0].BBox, true
}

// Get the tree nodes. The returned slice must not be modified.
func (t *Tree) Nodes() []Node {
	if t == nil {
		return nil
	}
	return t.nodes
}

// Find the nearest object hit by the ray.
func (t *Tree) Hit(r types.Ray) (float64, *scene.Object, bool) {
	if t == nil {
		return 0, nil, false
	}
	return t.hitNode(0, r)
}

func (t *Tree) hitNode(nodeIndex int32, r types.Ray) (float64, *scene.Object, bool) {
	node := &t.nodes[nodeIndex]
	if !node.BBox.Hit(r) {
		return 0, nil, false
	}

	if node.IsLeaf() {
		return node.Leaf.Hit(r)
	}

	// Children may overlap along the split axis so both must be visited
	lDist, lObj, lOk := t.hitNode(node.Left, r)
	rDist, rObj, rOk := t.hitNode(node.Right, r)
	lOk = lOk && lDist > types.MinHitDistance
	rOk = rOk && rDist > types.MinHitDistance

	switch {
	case lOk && (!rOk || lDist <= rDist):
		return lDist, lObj, true
	case rOk:
		return rDist, rObj, true
	}
	return 0, nil, false
}

// Find the nearest hit and build its hit record.
func (t *Tree) Trace(r types.Ray) (scene.RayHit, bool) {
	dist, obj, ok := t.Hit(r)
	if !ok {
		return scene.RayHit{}, false
	}
	return scene.NewRayHit(r, dist, obj), true
}
