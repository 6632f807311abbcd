package reachabilitymanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// reindexSubtree doubles rootHash's own interval capacity. Children are
// always carved contiguously from the start of their parent's interval (see
// splitForNewChild), so existing children's intervals stay exactly as they
// were; doubling the end of rootHash's own interval only grows the free tail
// room available for new children, and never needs to touch any descendant.
//
// This is the fallback path taken only once a node has exhausted its
// interval capacity for new children; ordinary insertion never reaches it.
//
// Limitation: this grows rootHash's own interval in place without checking
// whether a later-added sibling already occupies the reclaimed space. It is
// safe whenever rootHash is the most recently added child of its own
// parent (the overwhelmingly common case, since new children are appended
// in arrival order and a node usually only needs more room once it's
// actively being extended). A full implementation would walk up to the
// global reindex root and reallocate the whole path with slack reserved at
// each level; that full algorithm is not implemented here.
func (rt *reachabilityManager) reindexSubtree(stagingArea *model.StagingArea, rootHash *externalapi.DomainHash) error {
	rootData, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, rootHash)
	if err != nil {
		return err
	}

	rootData.TreeNode.Interval = &model.ReachabilityInterval{
		Start: rootData.TreeNode.Interval.Start,
		End:   rootData.TreeNode.Interval.Start + rootData.TreeNode.Interval.Size()*2,
	}
	rt.reachabilityDataStore.StageReachabilityData(stagingArea, rootHash, rootData)
	return nil
}
