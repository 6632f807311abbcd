package reachabilitymanager

import "github.com/kaspanet/kaspad/domain/consensus/model"

// treeRootCapacity is the size of the interval given to a tree with no
// parent (the DAG genesis). Every other interval is carved out of an
// ancestor's interval, so capacity only ever shrinks going down the tree.
const treeRootCapacity = uint64(1) << 62

// newRootInterval returns the interval assigned to a tree root.
func newRootInterval() *model.ReachabilityInterval {
	return &model.ReachabilityInterval{Start: 1, End: 1 + treeRootCapacity}
}

// splitForNewChild carves a child interval for the Nth child (zero-indexed)
// of a node out of the node's own [start, end) interval. The remaining
// capacity is repeatedly bisected: the first child gets roughly half of
// what's left, the second gets roughly half of the remainder, and so on.
// This favors earlier-added children (typically the ones closest to the
// blue selected-parent chain) with more room to grow before the node itself
// needs reindexing.
//
// alreadyAllocated is the summed size of the intervals the parent's existing
// children already hold (see allocatedCapacity); the new child starts right
// after them.
func splitForNewChild(parentInterval *model.ReachabilityInterval, alreadyAllocated uint64) (child *model.ReachabilityInterval, ok bool) {
	start := parentInterval.Start + alreadyAllocated
	remaining := parentInterval.End - start
	if remaining < 2 {
		return nil, false
	}

	size := remaining / 2
	if size == 0 {
		size = 1
	}

	return &model.ReachabilityInterval{Start: start, End: start + size}, true
}

// allocatedCapacity sums the interval sizes of a node's existing children,
// i.e. how much of the node's own interval has already been carved away.
func allocatedCapacity(childIntervals []*model.ReachabilityInterval) uint64 {
	var total uint64
	for _, interval := range childIntervals {
		total += interval.Size()
	}
	return total
}
