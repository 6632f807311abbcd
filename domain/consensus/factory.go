package consensus

import (
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/acceptancedatastore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/blockheaderstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/blockrelationstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/blockstatusstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/blockstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/consensusstatestore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/multisetstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/pruningstore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/kaspad/domain/consensus/datastructures/utxodiffstore"
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/processes/blockprocessor"
	"github.com/kaspanet/kaspad/domain/consensus/processes/blockvalidator"
	"github.com/kaspanet/kaspad/domain/consensus/processes/consensusstatemanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/dagtopologymanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/dagtraversalmanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/difficultymanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/ghostdagmanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/pastmediantimemanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/pruningmanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/reachabilitymanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/syncmanager"
	"github.com/kaspanet/kaspad/domain/consensus/processes/transactionvalidator"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(config *Config, databaseContext model.DBManager) (Consensus, error)
}

type factory struct{}

// NewFactory creates a new Factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus over databaseContext, wiring
// every store and process together and, on first run, staging the genesis
// block so the DAG always has a root.
func (f *factory) NewConsensus(config *Config, databaseContext model.DBManager) (Consensus, error) {
	cacheSize := config.StoreCacheSize

	// Data structures
	acceptanceDataStore := acceptancedatastore.New(cacheSize)
	blockStore := blockstore.New()
	blockRelationStore := blockrelationstore.New(cacheSize)
	blockStatusStore := blockstatusstore.New(cacheSize)
	multisetStore := multisetstore.New(cacheSize)
	pruningStore := pruningstore.New()
	reachabilityDataStore := reachabilitydatastore.New()
	utxoDiffStore := utxodiffstore.New(cacheSize)
	consensusStateStore := consensusstatestore.New()
	ghostdagDataStore := ghostdagdatastore.New(cacheSize)

	blockHeaderStore, err := blockheaderstore.New(databaseContext, cacheSize)
	if err != nil {
		return nil, err
	}

	genesisHash := consensushashing.HeaderHash(config.GenesisBlock.Header)

	// Processes
	reachabilityManager := reachabilitymanager.New(
		databaseContext,
		ghostdagDataStore,
		reachabilityDataStore,
		genesisHash,
	)

	dagTopologyManager := dagtopologymanager.New(
		databaseContext,
		reachabilityManager,
		blockRelationStore,
		consensusStateStore,
	)

	ghostdagManager := ghostdagmanager.New(
		databaseContext,
		dagTopologyManager,
		ghostdagDataStore,
		blockHeaderStore,
		config.K,
		genesisHash,
	)

	dagTraversalManager := dagtraversalmanager.New(
		databaseContext,
		dagTopologyManager,
		ghostdagManager,
		consensusStateStore,
		blockHeaderStore,
	)

	pastMedianTimeManager := pastmediantimemanager.New(
		databaseContext,
		dagTraversalManager,
		blockHeaderStore,
		config.DifficultyWindowSize,
		config.SampledDifficultyWindowSize,
		config.DifficultySampleRate,
		config.SampledDAAScoreActivation,
	)

	difficultyManager := difficultymanager.New(
		databaseContext,
		dagTraversalManager,
		blockHeaderStore,
		config.PowMax,
		config.DifficultyWindowSize,
		config.SampledDifficultyWindowSize,
		config.DifficultySampleRate,
		config.SampledDAAScoreActivation,
		config.TargetTimePerBlockMillis,
		config.GenesisBlock.Header.Bits,
	)

	transactionValidator := transactionvalidator.New(
		databaseContext,
		ghostdagDataStore,
		config.MaxTransactionValue,
		config.CoinbaseMaturity,
	)

	headerValidator := blockvalidator.New(
		databaseContext,
		dagTopologyManager,
		ghostdagManager,
		dagTraversalManager,
		difficultyManager,
		pastMedianTimeManager,
		blockHeaderStore,
		blockStatusStore,
		blockStore,
		ghostdagDataStore,
		pruningStore,
		genesisHash,
		config.BlockVersion,
		config.PowMax,
		config.SkipProofOfWork,
		config.MaxBlockParents,
		config.MergeSetSizeLimit,
		config.TimestampDeviationToleranceMillis,
		config.DifficultyWindowSize,
		config.MassParameters,
		config.MaxBlockMass,
		config.MaxTransactionValue,
		config.MassInMerkleRootActive,
		config.PayloadActivationActive,
	)
	bodyValidator := headerValidator.(model.BodyValidator)

	consensusStateManager := consensusstatemanager.New(
		databaseContext,
		ghostdagManager,
		dagTopologyManager,
		dagTraversalManager,
		pastMedianTimeManager,
		transactionValidator,
		blockStore,
		ghostdagDataStore,
		consensusStateStore,
		multisetStore,
		utxoDiffStore,
		acceptanceDataStore,
	)

	pruningManager := pruningmanager.New(
		databaseContext,
		dagTopologyManager,
		dagTraversalManager,
		ghostdagDataStore,
		blockHeaderStore,
		blockStore,
		blockStatusStore,
		consensusStateStore,
		pruningStore,
		genesisHash,
		config.FinalityInterval,
		config.PruningDepth,
	)

	syncManager := syncmanager.New(
		databaseContext,
		genesisHash,
		dagTraversalManager,
		dagTopologyManager,
		consensusStateManager,
		pruningStore,
		ghostdagDataStore,
		blockStatusStore,
	)

	blockProcessor := blockprocessor.New(
		databaseContext,
		headerValidator,
		bodyValidator,
		dagTopologyManager,
		reachabilityManager,
		consensusStateManager,
		pruningManager,
		blockHeaderStore,
		blockStore,
		blockStatusStore,
		acceptanceDataStore,
		multisetStore,
		utxoDiffStore,
		genesisHash,
	)

	c := &consensus{
		databaseContext: databaseContext,

		blockProcessor:        blockProcessor,
		consensusStateManager: consensusStateManager,
		pruningManager:        pruningManager,
		syncManager:           syncManager,

		blockHeaderStore:    blockHeaderStore,
		blockStore:          blockStore,
		blockStatusStore:    blockStatusStore,
		ghostdagDataStore:   ghostdagDataStore,
		consensusStateStore: consensusStateStore,
	}

	err = f.stageGenesisIfMissing(c, config, genesisHash)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// stageGenesisIfMissing inserts config.GenesisBlock as the DAG root the first
// time a database is opened against this config. Every later call is a no-op:
// ValidateAndInsertBlock rejects a block that's already known, so the check
// below short-circuits before ever reaching it.
func (f *factory) stageGenesisIfMissing(c *consensus, config *Config, genesisHash *externalapi.DomainHash) error {
	stagingArea := model.NewStagingArea()
	exists, err := c.blockStatusStore.Exists(c.databaseContext, stagingArea, genesisHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = c.blockProcessor.ValidateAndInsertBlock(config.GenesisBlock, true)
	return err
}
