// Package dagtraversalmanager walks the DAG: selected-parent chain diffs,
// difficulty/median-time windows, and anticone queries.
package dagtraversalmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// dagTraversalManager exposes methods for traversing blocks in the DAG
type dagTraversalManager struct {
	databaseContext      model.DBReader
	dagTopologyManager   model.DAGTopologyManager
	ghostdagManager      model.GHOSTDAGManager
	consensusStateStore  model.ConsensusStateStore
	headerStore          model.BlockHeaderStore
}

// New instantiates a new DAGTraversalManager
func New(
	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagManager model.GHOSTDAGManager,
	consensusStateStore model.ConsensusStateStore,
	headerStore model.BlockHeaderStore) model.DAGTraversalManager {

	return &dagTraversalManager{
		databaseContext:     databaseContext,
		dagTopologyManager:  dagTopologyManager,
		ghostdagManager:     ghostdagManager,
		consensusStateStore: consensusStateStore,
		headerStore:         headerStore,
	}
}

// SelectedParentChain finds the point where fromBlockHash's and toBlockHash's
// selected parent chains diverge, and returns the chain blocks on each side of
// that split: removed walks from fromBlockHash down to (but excluding) the
// split point, added walks from the split point up to (but excluding)
// toBlockHash, both in chain order (split-point-outward).
func (dtm *dagTraversalManager) SelectedParentChain(stagingArea *model.StagingArea, fromBlockHash,
	toBlockHash *externalapi.DomainHash) (removed, added []*externalapi.DomainHash, err error) {

	fromChainIndex := make(map[externalapi.DomainHash]int)
	fromChain := []*externalapi.DomainHash{}
	for current := fromBlockHash; current != nil; {
		fromChainIndex[*current] = len(fromChain)
		fromChain = append(fromChain, current)

		currentData, err := dtm.ghostdagManager.BlockData(stagingArea, current)
		if err != nil {
			return nil, nil, err
		}
		current = currentData.SelectedParent()
	}

	addedReversed := []*externalapi.DomainHash{}
	splitIndex := -1
	for current := toBlockHash; current != nil; {
		if index, ok := fromChainIndex[*current]; ok {
			splitIndex = index
			break
		}
		addedReversed = append(addedReversed, current)

		currentData, err := dtm.ghostdagManager.BlockData(stagingArea, current)
		if err != nil {
			return nil, nil, err
		}
		current = currentData.SelectedParent()
	}

	if splitIndex == -1 {
		return nil, nil, errors.Errorf(
			"no selected parent chain split point found between %s and %s", fromBlockHash, toBlockHash)
	}

	removed = fromChain[:splitIndex]

	added = make([]*externalapi.DomainHash, len(addedReversed))
	for i, hash := range addedReversed {
		added[len(addedReversed)-1-i] = hash
	}

	return removed, added, nil
}
