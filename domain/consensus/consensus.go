package consensus

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// Consensus maintains the core DAG state of the node: block validation and
// insertion, pruning, and everything a sync peer or RPC handler needs to know
// about where this node stands relative to the rest of the network.
//
// Mining (block template assembly) is explicitly out of scope, per the
// mining template assembler exclusion - nothing here builds new blocks.
type Consensus interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock, updateVirtual bool) (*externalapi.BlockInsertionResult, error)
	ValidateAndInsertImportedPruningPoint(newPruningPoint *externalapi.DomainBlock) error

	GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
	GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	GetBlockStatus(blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error)
	GetBlockGHOSTDAGData(blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error)

	Tips() ([]*externalapi.DomainHash, error)
	VirtualSelectedParent() (*externalapi.DomainHash, error)
	UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)

	GetSyncInfo() (*externalapi.SyncInfo, error)
	CreateBlockLocator(lowHash, highHash *externalapi.DomainHash, limit int) ([]*externalapi.DomainHash, error)
	GetHashesBetween(lowHash, highHash *externalapi.DomainHash, maxBlueScoreDifference uint64) ([]*externalapi.DomainHash, error)

	PruningPoint() (*externalapi.DomainHash, error)
	BuildPruningPointProof() (*model.PruningPointProof, error)
	ValidatePruningPointProof(proof *model.PruningPointProof) error
}

// consensus wires the consensus processes together behind the Consensus
// interface. Every query method opens its own staging area: nothing here is
// staged across calls, so a failed validation never leaves stray writes for
// the next call to trip over.
type consensus struct {
	databaseContext model.DBManager

	blockProcessor        model.BlockProcessor
	consensusStateManager model.ConsensusStateManager
	pruningManager        model.PruningManager
	syncManager           model.SyncManager

	blockHeaderStore    model.BlockHeaderStore
	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	consensusStateStore model.ConsensusStateStore
}

func (s *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock, updateVirtual bool) (
	*externalapi.BlockInsertionResult, error) {
	return s.blockProcessor.ValidateAndInsertBlock(block, updateVirtual)
}

func (s *consensus) ValidateAndInsertImportedPruningPoint(newPruningPoint *externalapi.DomainBlock) error {
	return s.blockProcessor.ValidateAndInsertImportedPruningPoint(newPruningPoint)
}

func (s *consensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	stagingArea := model.NewStagingArea()
	return s.blockStore.Block(s.databaseContext, stagingArea, blockHash)
}

func (s *consensus) GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	stagingArea := model.NewStagingArea()
	return s.blockHeaderStore.BlockHeader(s.databaseContext, stagingArea, blockHash)
}

func (s *consensus) GetBlockStatus(blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	stagingArea := model.NewStagingArea()
	return s.blockStatusStore.Get(s.databaseContext, stagingArea, blockHash)
}

func (s *consensus) GetBlockGHOSTDAGData(blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	stagingArea := model.NewStagingArea()
	return s.ghostdagDataStore.Get(s.databaseContext, stagingArea, blockHash)
}

func (s *consensus) Tips() ([]*externalapi.DomainHash, error) {
	stagingArea := model.NewStagingArea()
	return s.consensusStateStore.Tips(s.databaseContext, stagingArea)
}

func (s *consensus) VirtualSelectedParent() (*externalapi.DomainHash, error) {
	stagingArea := model.NewStagingArea()
	return s.consensusStateManager.VirtualSelectedParent(stagingArea)
}

func (s *consensus) UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	stagingArea := model.NewStagingArea()
	return s.consensusStateStore.UTXOByOutpoint(s.databaseContext, stagingArea, outpoint)
}

func (s *consensus) GetSyncInfo() (*externalapi.SyncInfo, error) {
	stagingArea := model.NewStagingArea()
	return s.syncManager.GetSyncInfo(stagingArea)
}

func (s *consensus) CreateBlockLocator(lowHash, highHash *externalapi.DomainHash, limit int) (
	[]*externalapi.DomainHash, error) {
	stagingArea := model.NewStagingArea()
	return s.syncManager.CreateBlockLocator(stagingArea, lowHash, highHash, limit)
}

func (s *consensus) GetHashesBetween(lowHash, highHash *externalapi.DomainHash, maxBlueScoreDifference uint64) (
	[]*externalapi.DomainHash, error) {
	stagingArea := model.NewStagingArea()
	return s.syncManager.GetHashesBetween(stagingArea, lowHash, highHash, maxBlueScoreDifference)
}

func (s *consensus) PruningPoint() (*externalapi.DomainHash, error) {
	stagingArea := model.NewStagingArea()
	return s.pruningManager.PruningPoint(stagingArea)
}

func (s *consensus) BuildPruningPointProof() (*model.PruningPointProof, error) {
	stagingArea := model.NewStagingArea()
	return s.pruningManager.BuildPruningPointProof(stagingArea)
}

func (s *consensus) ValidatePruningPointProof(proof *model.PruningPointProof) error {
	return s.pruningManager.ValidatePruningPointProof(proof)
}
