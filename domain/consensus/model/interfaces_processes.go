package model

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// DAGTopologyManager exposes methods for querying parent/child relationships
// between blocks in the DAG
type DAGTopologyManager interface {
	Parents(stagingArea *StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	Children(stagingArea *StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	IsParentOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsChildOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsAncestorOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsAncestorOfAny(stagingArea *StagingArea, blockHash *externalapi.DomainHash, potentialDescendants []*externalapi.DomainHash) (bool, error)
	IsInSelectedParentChainOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	Tips(stagingArea *StagingArea) ([]*externalapi.DomainHash, error)
	AddTip(stagingArea *StagingArea, tipHash *externalapi.DomainHash) error
	SetParents(stagingArea *StagingArea, blockHash *externalapi.DomainHash, parents []*externalapi.DomainHash) error
}

// GHOSTDAGManager resolves and stages a block's GHOSTDAG data given its parents
type GHOSTDAGManager interface {
	GHOSTDAG(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
	ChooseSelectedParent(stagingArea *StagingArea, blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error)
	Less(blockHashA *externalapi.DomainHash, ghostdagDataA *BlockGHOSTDAGData,
		blockHashB *externalapi.DomainHash, ghostdagDataB *BlockGHOSTDAGData) bool
	BlockData(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*BlockGHOSTDAGData, error)
}

// ReachabilityManager answers ancestor queries over the DAG's selected-parent
// tree in sub-linear time using an interval-tree index, and maintains that
// index incrementally as new blocks are added
type ReachabilityManager interface {
	Init(stagingArea *StagingArea) error
	AddBlock(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
	IsReachabilityTreeAncestorOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsDAGAncestorOf(stagingArea *StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	UpdateReindexRoot(stagingArea *StagingArea, selectedTip *externalapi.DomainHash) error
	ForwardChainIterator(stagingArea *StagingArea, fromAncestor, toDescendant *externalapi.DomainHash) (ChainIterator, error)
	BackwardChainIterator(stagingArea *StagingArea, fromDescendant, toAncestor *externalapi.DomainHash) (ChainIterator, error)
}

// ChainIterator walks a selected-parent chain segment between two known chain blocks
type ChainIterator interface {
	Next() (*externalapi.DomainHash, bool, error)
}

// DAGTraversalManager exposes BFS/DFS helpers and window extraction over the DAG
type DAGTraversalManager interface {
	SelectedParentChain(stagingArea *StagingArea, fromBlockHash, toBlockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, []*externalapi.DomainHash, error)
	BlockWindow(stagingArea *StagingArea, highHash *externalapi.DomainHash, windowSize int) (BlockWindowHeap, error)
	SampledBlockWindow(stagingArea *StagingArea, highHash *externalapi.DomainHash, windowSize, sampleRate int) (BlockWindowHeap, error)
	AnticoneSize(stagingArea *StagingArea, blockHash, contextHash *externalapi.DomainHash) (int, error)
	Anticone(stagingArea *StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
}

// BlockWindowHeapElement is a single entry of a difficulty/median-time window,
// ordered by (blue work desc, hash asc)
type BlockWindowHeapElement struct {
	Hash      *externalapi.DomainHash
	BlueWork  *big.Int
	Timestamp int64
}

// BlockWindowHeap is a window of blocks ordered for difficulty/median-time computation
type BlockWindowHeap []*BlockWindowHeapElement

// DifficultyManager computes the required difficulty bits for a block and
// estimates network hashrate from the same window
type DifficultyManager interface {
	RequiredDifficulty(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (uint32, error)
	EstimateNetworkHashesPerSecond(stagingArea *StagingArea, windowSize int) (uint64, error)
}

// PastMedianTimeManager computes the median timestamp of a block's difficulty window
type PastMedianTimeManager interface {
	PastMedianTime(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (int64, error)
}

// HeaderValidator validates a header both in isolation and, once its parents
// are known, in the context of the rest of the DAG
type HeaderValidator interface {
	ValidateHeaderInIsolation(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
	ValidateHeaderInContext(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
}

// BodyValidator validates a block's transactions against consensus rules,
// both in isolation (size/format) and in context (UTXO-independent DAG rules
// such as merkle root and mass)
type BodyValidator interface {
	ValidateBodyInIsolation(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
	ValidateBodyInContext(stagingArea *StagingArea, blockHash *externalapi.DomainHash) error
}

// TransactionValidator validates individual transactions, both free-standing
// and against a populated UTXO view
type TransactionValidator interface {
	ValidateTransactionInIsolation(transaction *externalapi.DomainTransaction) error
	ValidateTransactionInContextAndPopulateFee(stagingArea *StagingArea, transaction *externalapi.DomainTransaction,
		povBlockHash *externalapi.DomainHash, selectedParentMedianTime int64) error
}

// CoinbaseManager validates and constructs coinbase transactions, including
// subsidy-schedule lookups
type CoinbaseManager interface {
	ExpectedCoinbaseTransaction(stagingArea *StagingArea, blockHash *externalapi.DomainHash,
		acceptanceData externalapi.AcceptanceData) (*externalapi.DomainTransaction, error)
	CalcBlockSubsidy(blockDAAScore uint64) uint64
}

// ConsensusStateManager maintains the virtual block's state: its parents, its
// UTXO diff relative to the committed set, and the acceptance data produced by
// every virtual-state update
type ConsensusStateManager interface {
	AddBlock(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.SelectedParentChainChanges, error)
	UpdateVirtual(stagingArea *StagingArea) (*externalapi.VirtualChangeSet, error)
	PopulateTransactionWithUTXOEntries(stagingArea *StagingArea, transaction *externalapi.DomainTransaction) error
	CalculatePastUTXOAndAcceptanceData(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (UTXODiff, externalapi.AcceptanceData, Multiset, error)
	RestorePastUTXOSetIterator(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (ReadOnlyUTXOSetIterator, error)
	VirtualSelectedParent(stagingArea *StagingArea) (*externalapi.DomainHash, error)
}

// VirtualChangeSet aggregates every notification-worthy outcome of a single
// virtual-state update
type VirtualChangeSet struct {
	VirtualSelectedParentChainChanges *externalapi.SelectedParentChainChanges
	VirtualUTXODiff                   UTXODiff
	VirtualParents                    []*externalapi.DomainHash
	VirtualSelectedParentBlueScore    uint64
	VirtualDAAScore                   uint64
}

// PruningManager advances the pruning point, builds the pruning proof, and
// imports trusted data / UTXO set snapshots during IBD-from-proof
type PruningManager interface {
	UpdatePruningPointByVirtual(stagingArea *StagingArea) error
	PruningPoint(stagingArea *StagingArea) (*externalapi.DomainHash, error)
	BuildPruningPointProof(stagingArea *StagingArea) (*PruningPointProof, error)
	ValidatePruningPointProof(proof *PruningPointProof) error
	ImportPruningPointUTXOSet(stagingArea *StagingArea, pruningPointHash *externalapi.DomainHash) error
	AppendImportedPruningPointUTXOs(outpointAndUTXOEntryPairs []*OutpointAndUTXOEntryPair) error
	ClearImportedPruningPointUTXOs() error
}

// OutpointAndUTXOEntryPair is a single chunk element of a pruning-point UTXO set snapshot
type OutpointAndUTXOEntryPair struct {
	Outpoint *externalapi.DomainOutpoint
	UTXOEntry *externalapi.UTXOEntry
}

// PruningPointProof is, per level of parentsByLevel, a chain of headers
// demonstrating sufficient accumulated work anchored to the claimed pruning point
type PruningPointProof struct {
	Headers [][]*externalapi.DomainBlockHeader
}

// BlockProcessor orchestrates header -> body -> virtual validation for incoming blocks
type BlockProcessor interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock, updateVirtual bool) (*externalapi.BlockInsertionResult, error)
	ValidateAndInsertImportedPruningPoint(newPruningPoint *externalapi.DomainBlock) error
}

// SyncManager reports the node's sync status and produces block locators for IBD
type SyncManager interface {
	GetSyncInfo(stagingArea *StagingArea) (*externalapi.SyncInfo, error)
	CreateBlockLocator(stagingArea *StagingArea, lowHash, highHash *externalapi.DomainHash, limit int) ([]*externalapi.DomainHash, error)
	GetHashesBetween(stagingArea *StagingArea, lowHash, highHash *externalapi.DomainHash, maxBlueScoreDifference uint64) ([]*externalapi.DomainHash, error)
}
