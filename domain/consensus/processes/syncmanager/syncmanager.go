// Package syncmanager reports the node's sync status and produces block
// locators and hash ranges for IBD against a peer.
package syncmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

type syncManager struct {
	databaseContext  model.DBReader
	genesisBlockHash *externalapi.DomainHash

	dagTraversalManager   model.DAGTraversalManager
	dagTopologyManager    model.DAGTopologyManager
	consensusStateManager model.ConsensusStateManager
	pruningStore          model.PruningStore

	ghostdagDataStore model.GHOSTDAGDataStore
	blockStatusStore  model.BlockStatusStore
}

// New instantiates a new SyncManager
func New(
	databaseContext model.DBReader,
	genesisBlockHash *externalapi.DomainHash,
	dagTraversalManager model.DAGTraversalManager,
	dagTopologyManager model.DAGTopologyManager,
	consensusStateManager model.ConsensusStateManager,
	pruningStore model.PruningStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	blockStatusStore model.BlockStatusStore) model.SyncManager {

	return &syncManager{
		databaseContext:  databaseContext,
		genesisBlockHash: genesisBlockHash,

		dagTraversalManager:   dagTraversalManager,
		dagTopologyManager:    dagTopologyManager,
		consensusStateManager: consensusStateManager,
		pruningStore:          pruningStore,

		ghostdagDataStore: ghostdagDataStore,
		blockStatusStore:  blockStatusStore,
	}
}

// GetSyncInfo reports how far this consensus still has to go before it's
// caught up: whether it's missing the pruning point's UTXO set (IBD from a
// proof), missing block bodies for headers it already has (header-first
// IBD), or fully caught up.
//
// This workspace's model.PruningStore carries no separate per-stage IBD
// flag the way the teacher's candidate-tracking design did, so sync state is
// inferred directly from block status, which is the only place that
// distinction is actually recorded.
func (sm *syncManager) GetSyncInfo(stagingArea *model.StagingArea) (*externalapi.SyncInfo, error) {
	pruningPoint, err := sm.pruningStore.PruningPoint(sm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	pruningPointStatus, err := sm.blockStatusStore.Get(sm.databaseContext, stagingArea, pruningPoint)
	if err != nil {
		return nil, err
	}
	if !pruningPointStatus.HasBlock() {
		return &externalapi.SyncInfo{State: externalapi.SyncStateMissingUTXOSet, IBDRootUTXOBlockHash: pruningPoint}, nil
	}

	virtualSelectedParent, err := sm.consensusStateManager.VirtualSelectedParent(stagingArea)
	if err != nil {
		return nil, err
	}
	if virtualSelectedParent != nil {
		virtualSelectedParentStatus, err := sm.blockStatusStore.Get(sm.databaseContext, stagingArea, virtualSelectedParent)
		if err != nil {
			return nil, err
		}
		if !virtualSelectedParentStatus.HasBlock() {
			return &externalapi.SyncInfo{State: externalapi.SyncStateMissingBlockBodies}, nil
		}
	}

	return &externalapi.SyncInfo{State: externalapi.SyncStateNormal}, nil
}
