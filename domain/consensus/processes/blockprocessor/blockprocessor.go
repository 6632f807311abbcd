// Package blockprocessor orchestrates the pipeline a new block passes
// through on its way into the DAG: header validation, body validation,
// folding its merge set into the UTXO state, and - for blocks that extend
// the virtual's tip set - recomputing the virtual block itself.
package blockprocessor

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// blockProcessor validates incoming blocks and applies them to the DAG
type blockProcessor struct {
	databaseContext model.DBManager

	headerValidator        model.HeaderValidator
	bodyValidator          model.BodyValidator
	dagTopologyManager     model.DAGTopologyManager
	reachabilityManager    model.ReachabilityManager
	consensusStateManager  model.ConsensusStateManager
	pruningManager         model.PruningManager

	blockHeaderStore    model.BlockHeaderStore
	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	acceptanceDataStore model.AcceptanceDataStore
	multisetStore       model.MultisetStore
	utxoDiffStore       model.UTXODiffStore

	genesisHash *externalapi.DomainHash
}

// New instantiates a new BlockProcessor
func New(
	databaseContext model.DBManager,
	headerValidator model.HeaderValidator,
	bodyValidator model.BodyValidator,
	dagTopologyManager model.DAGTopologyManager,
	reachabilityManager model.ReachabilityManager,
	consensusStateManager model.ConsensusStateManager,
	pruningManager model.PruningManager,
	blockHeaderStore model.BlockHeaderStore,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	acceptanceDataStore model.AcceptanceDataStore,
	multisetStore model.MultisetStore,
	utxoDiffStore model.UTXODiffStore,
	genesisHash *externalapi.DomainHash) model.BlockProcessor {

	return &blockProcessor{
		databaseContext: databaseContext,

		headerValidator:       headerValidator,
		bodyValidator:         bodyValidator,
		dagTopologyManager:    dagTopologyManager,
		reachabilityManager:   reachabilityManager,
		consensusStateManager: consensusStateManager,
		pruningManager:        pruningManager,

		blockHeaderStore:    blockHeaderStore,
		blockStore:          blockStore,
		blockStatusStore:    blockStatusStore,
		acceptanceDataStore: acceptanceDataStore,
		multisetStore:       multisetStore,
		utxoDiffStore:       utxoDiffStore,

		genesisHash: genesisHash,
	}
}

// commit flushes every write staged within stagingArea to the database as a
// single atomic transaction
func (bp *blockProcessor) commit(stagingArea *model.StagingArea) error {
	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		return err
	}

	err = stagingArea.Commit(dbTx)
	if err != nil {
		rollbackErr := dbTx.Rollback()
		if rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return dbTx.Commit()
}
