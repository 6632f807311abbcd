// Package reachabilitymanager answers ancestor queries over the DAG's
// selected-parent tree by labeling every block with an interval such that A
// is a tree-ancestor of B iff A's interval contains B's. Blocks reached only
// through non-selected-parent edges are covered by future-covering sets
// registered on those edges, completing the ancestor test across the whole
// DAG rather than just the selected-parent tree.
package reachabilitymanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
)

type reachabilityManager struct {
	databaseContext       model.DBReader
	ghostdagDataStore     model.GHOSTDAGDataStore
	reachabilityDataStore model.ReachabilityDataStore
	genesisHash           *externalapi.DomainHash
}

// New returns a new ReachabilityManager.
func New(
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	reachabilityDataStore model.ReachabilityDataStore,
	genesisHash *externalapi.DomainHash) model.ReachabilityManager {

	return &reachabilityManager{
		databaseContext:       databaseContext,
		ghostdagDataStore:     ghostdagDataStore,
		reachabilityDataStore: reachabilityDataStore,
		genesisHash:           genesisHash,
	}
}

// Init ensures the genesis block has reachability data, seeding the tree root.
func (rt *reachabilityManager) Init(stagingArea *model.StagingArea) error {
	hasData, err := rt.reachabilityDataStore.HasReachabilityData(rt.databaseContext, stagingArea, rt.genesisHash)
	if err != nil {
		return err
	}
	if hasData {
		return nil
	}

	genesisData := &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Parent:   nil,
			Children: nil,
			Interval: newRootInterval(),
		},
		FutureCoveringSet: nil,
	}
	rt.reachabilityDataStore.StageReachabilityData(stagingArea, rt.genesisHash, genesisData)
	rt.reachabilityDataStore.StageReindexRoot(stagingArea, rt.genesisHash)
	return nil
}

// AddBlock assigns blockHash a place in the reachability tree as a child of
// its selected parent, and registers it in the future-covering set of every
// other parent so non-tree ancestry through those edges can still be proven.
func (rt *reachabilityManager) AddBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	ghostdagData, err := rt.ghostdagDataStore.Get(rt.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	selectedParent := ghostdagData.SelectedParent()
	if selectedParent == nil {
		return ruleerrors.NewRuleError(ruleerrors.ErrMissingParents, "block has no selected parent to attach to the reachability tree")
	}

	parentData, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, selectedParent)
	if err != nil {
		return err
	}

	childInterval, err := rt.allocateChildInterval(stagingArea, selectedParent, parentData)
	if err != nil {
		return err
	}

	parentData.TreeNode.Children = append(parentData.TreeNode.Children, blockHash)
	rt.reachabilityDataStore.StageReachabilityData(stagingArea, selectedParent, parentData)

	blockData := &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Parent:   selectedParent,
			Children: nil,
			Interval: childInterval,
		},
		FutureCoveringSet: nil,
	}
	rt.reachabilityDataStore.StageReachabilityData(stagingArea, blockHash, blockData)

	for _, parent := range ghostdagData.MergeSet() {
		if parent.Equal(selectedParent) {
			continue
		}
		if err := rt.registerInFutureCoveringSet(stagingArea, parent, blockHash); err != nil {
			return err
		}
	}

	return nil
}

// registerInFutureCoveringSet appends blockHash to ancestorHash's
// future-covering set, so queries for descendants of ancestorHash reached
// only through non-tree edges can still find blockHash.
func (rt *reachabilityManager) registerInFutureCoveringSet(stagingArea *model.StagingArea, ancestorHash, blockHash *externalapi.DomainHash) error {
	hasData, err := rt.reachabilityDataStore.HasReachabilityData(rt.databaseContext, stagingArea, ancestorHash)
	if err != nil {
		return err
	}
	if !hasData {
		return nil
	}

	data, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, ancestorHash)
	if err != nil {
		return err
	}
	data.FutureCoveringSet = append(data.FutureCoveringSet, blockHash)
	rt.reachabilityDataStore.StageReachabilityData(stagingArea, ancestorHash, data)
	return nil
}

// allocateChildInterval carves an interval for a new child of parentHash out
// of its remaining capacity. If it has run out of room, parentHash's own
// interval is grown first (see reindexSubtree); its descendants are not
// relabeled.
func (rt *reachabilityManager) allocateChildInterval(stagingArea *model.StagingArea, parentHash *externalapi.DomainHash, parentData *model.ReachabilityData) (*model.ReachabilityInterval, error) {
	childIntervals, err := rt.childIntervals(stagingArea, parentData.TreeNode.Children)
	if err != nil {
		return nil, err
	}

	interval, ok := splitForNewChild(parentData.TreeNode.Interval, allocatedCapacity(childIntervals))
	if ok {
		return interval, nil
	}

	if err := rt.reindexSubtree(stagingArea, parentHash); err != nil {
		return nil, err
	}

	parentData, err = rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, parentHash)
	if err != nil {
		return nil, err
	}
	childIntervals, err = rt.childIntervals(stagingArea, parentData.TreeNode.Children)
	if err != nil {
		return nil, err
	}
	interval, ok = splitForNewChild(parentData.TreeNode.Interval, allocatedCapacity(childIntervals))
	if !ok {
		return nil, ruleerrors.NewRuleError(ruleerrors.ErrMissingParents, "reachability tree exhausted its interval capacity even after reindexing")
	}
	return interval, nil
}

func (rt *reachabilityManager) childIntervals(stagingArea *model.StagingArea, children []*externalapi.DomainHash) ([]*model.ReachabilityInterval, error) {
	intervals := make([]*model.ReachabilityInterval, len(children))
	for i, child := range children {
		data, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, child)
		if err != nil {
			return nil, err
		}
		intervals[i] = data.TreeNode.Interval
	}
	return intervals, nil
}

// IsReachabilityTreeAncestorOf reports whether blockHashA is an ancestor of
// blockHashB strictly through the selected-parent tree (not the wider DAG).
func (rt *reachabilityManager) IsReachabilityTreeAncestorOf(stagingArea *model.StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	dataA, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	dataB, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return dataA.TreeNode.Interval.Contains(dataB.TreeNode.Interval), nil
}

// IsDAGAncestorOf reports whether blockHashA is an ancestor of blockHashB
// anywhere in the DAG: either through the reachability tree directly, or
// through a future-covering-set entry that is itself a tree-ancestor of B.
func (rt *reachabilityManager) IsDAGAncestorOf(stagingArea *model.StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	isTreeAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, blockHashA, blockHashB)
	if err != nil {
		return false, err
	}
	if isTreeAncestor {
		return true, nil
	}

	dataA, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	for _, covering := range dataA.FutureCoveringSet {
		isAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, covering, blockHashB)
		if err != nil {
			return false, err
		}
		if isAncestor {
			return true, nil
		}
	}
	return false, nil
}

// UpdateReindexRoot advances the reindex root to the new selected tip. The
// reindex root anchors how much of the tree a future capacity-exhaustion
// reindex has to rebuild.
func (rt *reachabilityManager) UpdateReindexRoot(stagingArea *model.StagingArea, selectedTip *externalapi.DomainHash) error {
	rt.reachabilityDataStore.StageReindexRoot(stagingArea, selectedTip)
	return nil
}
