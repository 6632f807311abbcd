package dagtraversalmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// Anticone returns every current DAG tip that is in blockHash's anticone,
// i.e. every tip that's neither an ancestor nor a descendant of blockHash.
func (dtm *dagTraversalManager) Anticone(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	anticone := []*externalapi.DomainHash{}
	queue, err := dtm.consensusStateStore.Tips(dtm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	visited := make(map[externalapi.DomainHash]struct{})

	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		currentIsAncestorOfBlock, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, current, blockHash)
		if err != nil {
			return nil, err
		}
		if currentIsAncestorOfBlock {
			continue
		}

		blockIsAncestorOfCurrent, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, blockHash, current)
		if err != nil {
			return nil, err
		}
		if !blockIsAncestorOfCurrent {
			anticone = append(anticone, current)
		}

		currentParents, err := dtm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		for _, parent := range currentParents {
			queue = append(queue, parent)
		}
	}

	return anticone, nil
}

// AnticoneSize counts blockHash's anticone restricted to contextHash's past:
// it walks contextHash's selected parent chain, and at every chain block
// (including contextHash itself) counts merge-set members that are neither
// blockHash itself nor in an ancestor relationship with it either way. The
// walk stops once it reaches blockHash on the chain, or a chain block that is
// itself an ancestor of blockHash — past that point every remaining merge-set
// member is necessarily an ancestor of blockHash too, so nothing further can
// be in its anticone. The per-chain-block merge-set scan mirrors the shape
// ghostdagmanager's blue-candidate check uses to bound a candidate's anticone
// against K; the "process this block, then decide whether to keep walking"
// order (rather than checking ancestry first) matters, since contextHash
// itself can already have blockHash as an ancestor while still holding
// unrelated merge-set members worth counting.
func (dtm *dagTraversalManager) AnticoneSize(stagingArea *model.StagingArea, blockHash,
	contextHash *externalapi.DomainHash) (int, error) {

	anticoneSize := 0
	counted := make(map[externalapi.DomainHash]struct{})

	for current := contextHash; ; {
		currentData, err := dtm.ghostdagManager.BlockData(stagingArea, current)
		if err != nil {
			return 0, err
		}

		for _, mergeSetMember := range currentData.MergeSet() {
			if mergeSetMember.Equal(blockHash) {
				continue
			}
			if _, ok := counted[*mergeSetMember]; ok {
				continue
			}

			memberIsAncestorOfBlock, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, mergeSetMember, blockHash)
			if err != nil {
				return 0, err
			}
			if memberIsAncestorOfBlock {
				continue
			}
			blockIsAncestorOfMember, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, blockHash, mergeSetMember)
			if err != nil {
				return 0, err
			}
			if blockIsAncestorOfMember {
				continue
			}

			counted[*mergeSetMember] = struct{}{}
			anticoneSize++
		}

		if current.Equal(blockHash) {
			break
		}
		currentIsAncestorOfBlock, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, current, blockHash)
		if err != nil {
			return 0, err
		}
		if currentIsAncestorOfBlock {
			break
		}

		current = currentData.SelectedParent()
		if current == nil {
			break
		}
	}

	return anticoneSize, nil
}
