// Package consensusstatemanager maintains the virtual block: its parent set
// (the DAG's current tips), the UTXO diff that set carries relative to the
// committed UTXO set, and the acceptance data produced by folding each new
// block's merge set into that diff.
package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
)

type consensusStateManager struct {
	databaseContext model.DBReader

	ghostdagManager       model.GHOSTDAGManager
	dagTopologyManager    model.DAGTopologyManager
	dagTraversalManager   model.DAGTraversalManager
	pastMedianTimeManager model.PastMedianTimeManager
	transactionValidator  model.TransactionValidator

	blockStore          model.BlockStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	consensusStateStore model.ConsensusStateStore
	multisetStore       model.MultisetStore
	utxoDiffStore       model.UTXODiffStore
	acceptanceDataStore model.AcceptanceDataStore
}

// New instantiates a new ConsensusStateManager
func New(
	databaseContext model.DBReader,
	ghostdagManager model.GHOSTDAGManager,
	dagTopologyManager model.DAGTopologyManager,
	dagTraversalManager model.DAGTraversalManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	transactionValidator model.TransactionValidator,
	blockStore model.BlockStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	consensusStateStore model.ConsensusStateStore,
	multisetStore model.MultisetStore,
	utxoDiffStore model.UTXODiffStore,
	acceptanceDataStore model.AcceptanceDataStore) model.ConsensusStateManager {

	return &consensusStateManager{
		databaseContext: databaseContext,

		ghostdagManager:       ghostdagManager,
		dagTopologyManager:    dagTopologyManager,
		dagTraversalManager:   dagTraversalManager,
		pastMedianTimeManager: pastMedianTimeManager,
		transactionValidator:  transactionValidator,

		blockStore:          blockStore,
		ghostdagDataStore:   ghostdagDataStore,
		consensusStateStore: consensusStateStore,
		multisetStore:       multisetStore,
		utxoDiffStore:       utxoDiffStore,
		acceptanceDataStore: acceptanceDataStore,
	}
}
