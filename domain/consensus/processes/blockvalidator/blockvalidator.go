// Package blockvalidator validates a block both in isolation (header format,
// parent count, timestamp drift, transaction well-formedness, merkle root,
// mass) and in context (DAG-relative rules such as merge set size, median
// time, DAA score, difficulty, and body-dependency ordering)
package blockvalidator

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/mass"
)

// blockValidator validates blocks against the consensus rules that don't
// require a populated UTXO view. The same struct implements both
// model.HeaderValidator and model.BodyValidator; New returns it as the
// former, but it satisfies the latter too.
type blockValidator struct {
	databaseContext    model.DBReader
	dagTopologyManager model.DAGTopologyManager
	ghostdagManager    model.GHOSTDAGManager

	dagTraversalManager   model.DAGTraversalManager
	difficultyManager     model.DifficultyManager
	pastMedianTimeManager model.PastMedianTimeManager

	blockHeaderStore  model.BlockHeaderStore
	blockStatusStore  model.BlockStatusStore
	blockStore        model.BlockStore
	ghostdagDataStore model.GHOSTDAGDataStore
	pruningStore      model.PruningStore

	genesisHash                       *externalapi.DomainHash
	blockVersion                      uint16
	powMax                            *big.Int
	skipPoW                           bool
	maxBlockParents                   int
	mergeSetSizeLimit                 uint64
	timestampDeviationToleranceMillis int64
	daaWindowSize                     int

	massParams              *mass.Parameters
	maxBlockMass            uint64
	maxTransactionValue     uint64
	massInMerkleRootActive  bool
	payloadActivationActive bool
}

// New instantiates a new HeaderValidator. The returned value also satisfies
// model.BodyValidator.
func New(
	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagManager model.GHOSTDAGManager,
	dagTraversalManager model.DAGTraversalManager,
	difficultyManager model.DifficultyManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	blockHeaderStore model.BlockHeaderStore,
	blockStatusStore model.BlockStatusStore,
	blockStore model.BlockStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	pruningStore model.PruningStore,
	genesisHash *externalapi.DomainHash,
	blockVersion uint16,
	powMax *big.Int,
	skipPoW bool,
	maxBlockParents int,
	mergeSetSizeLimit uint64,
	timestampDeviationToleranceMillis int64,
	daaWindowSize int,
	massParams *mass.Parameters,
	maxBlockMass uint64,
	maxTransactionValue uint64,
	massInMerkleRootActive bool,
	payloadActivationActive bool) model.HeaderValidator {

	return &blockValidator{
		databaseContext:                   databaseContext,
		dagTopologyManager:                dagTopologyManager,
		ghostdagManager:                   ghostdagManager,
		dagTraversalManager:               dagTraversalManager,
		difficultyManager:                 difficultyManager,
		pastMedianTimeManager:             pastMedianTimeManager,
		blockHeaderStore:                  blockHeaderStore,
		blockStatusStore:                  blockStatusStore,
		blockStore:                        blockStore,
		ghostdagDataStore:                 ghostdagDataStore,
		pruningStore:                      pruningStore,
		genesisHash:                       genesisHash,
		blockVersion:                      blockVersion,
		powMax:                            powMax,
		skipPoW:                           skipPoW,
		maxBlockParents:                   maxBlockParents,
		mergeSetSizeLimit:                 mergeSetSizeLimit,
		timestampDeviationToleranceMillis: timestampDeviationToleranceMillis,
		daaWindowSize:                     daaWindowSize,
		massParams:                        massParams,
		maxBlockMass:                      maxBlockMass,
		maxTransactionValue:               maxTransactionValue,
		massInMerkleRootActive:            massInMerkleRootActive,
		payloadActivationActive:           payloadActivationActive,
	}
}
