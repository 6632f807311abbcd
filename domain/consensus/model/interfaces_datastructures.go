package model

import "github.com/kaspanet/kaspad/domain/consensus/model/externalapi"

// BlockHeaderStore stages and persists block headers, one per DAG block, plus
// the set of current header tips used by the header-only sync mode
type BlockHeaderStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader)
	IsStaged(stagingArea *StagingArea) bool
	BlockHeader(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	HasBlockHeader(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
	Count(stagingArea *StagingArea) uint64
}

// BlockStore stages and persists full block bodies. Pruned blocks retain only
// their header, so Block returns Missing once a block has been pruned.
type BlockStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, block *externalapi.DomainBlock)
	IsStaged(stagingArea *StagingArea) bool
	Block(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
	HasBlock(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
	Count(stagingArea *StagingArea) uint64
}

// BlockStatusStore stages and persists each block's BlockStatus lifecycle state
type BlockStatusStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, status externalapi.BlockStatus)
	IsStaged(stagingArea *StagingArea) bool
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error)
	Exists(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
}

// BlockRelationStore stages and persists each block's parent/child edges
type BlockRelationStore interface {
	StageBlockRelation(stagingArea *StagingArea, blockHash *externalapi.DomainHash, blockRelations *BlockRelations)
	IsStaged(stagingArea *StagingArea) bool
	BlockRelation(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*BlockRelations, error)
	Has(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
}

// BlockRelations holds the parent and child edges of a single block
type BlockRelations struct {
	Parents  []*externalapi.DomainHash
	Children []*externalapi.DomainHash
}

// Clone returns a deep copy of the BlockRelations
func (br *BlockRelations) Clone() *BlockRelations {
	if br == nil {
		return nil
	}
	return &BlockRelations{Parents: externalapi.CloneHashes(br.Parents), Children: externalapi.CloneHashes(br.Children)}
}

// ReachabilityDataStore stages and persists the per-block reachability
// interval tree nodes and future-covering sets, plus the global reindex root
type ReachabilityDataStore interface {
	StageReachabilityData(stagingArea *StagingArea, blockHash *externalapi.DomainHash, reachabilityData *ReachabilityData)
	StageReindexRoot(stagingArea *StagingArea, reindexRoot *externalapi.DomainHash)
	IsStaged(stagingArea *StagingArea) bool
	ReachabilityData(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*ReachabilityData, error)
	HasReachabilityData(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	ReindexRoot(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)
}

// ReachabilityInterval is a half-open [Start, End) interval assigned to a
// block on the selected-parent tree such that ancestor(A, B) iff A's interval
// contains B's interval
type ReachabilityInterval struct {
	Start uint64
	End   uint64
}

// Size returns the number of slots in the interval
func (ri *ReachabilityInterval) Size() uint64 {
	return ri.End - ri.Start
}

// Contains returns whether other is nested within ri
func (ri *ReachabilityInterval) Contains(other *ReachabilityInterval) bool {
	return ri.Start <= other.Start && other.End <= ri.End
}

// ReachabilityData is the per-block bookkeeping the reachability tree needs:
// its own interval, its parent in the tree, its children, and its future
// covering set (used to complete ancestor queries across non-chain edges)
type ReachabilityData struct {
	TreeNode          *ReachabilityTreeNode
	FutureCoveringSet []*externalapi.DomainHash
}

// ReachabilityTreeNode is a single node of the selected-parent reachability tree
type ReachabilityTreeNode struct {
	Parent   *externalapi.DomainHash
	Children []*externalapi.DomainHash
	Interval *ReachabilityInterval
}

// Clone returns a deep copy of the ReachabilityData
func (rd *ReachabilityData) Clone() *ReachabilityData {
	if rd == nil {
		return nil
	}
	var treeNode *ReachabilityTreeNode
	if rd.TreeNode != nil {
		interval := *rd.TreeNode.Interval
		treeNode = &ReachabilityTreeNode{
			Parent:   rd.TreeNode.Parent.Clone(),
			Children: externalapi.CloneHashes(rd.TreeNode.Children),
			Interval: &interval,
		}
	}
	return &ReachabilityData{TreeNode: treeNode, FutureCoveringSet: externalapi.CloneHashes(rd.FutureCoveringSet)}
}

// GHOSTDAGDataStore stages and persists each block's BlockGHOSTDAGData
type GHOSTDAGDataStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, blockGHOSTDAGData *BlockGHOSTDAGData)
	IsStaged(stagingArea *StagingArea) bool
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*BlockGHOSTDAGData, error)
}

// ConsensusStateStore stages and persists the virtual's own UTXO set (i.e. the
// UTXO set committed as of the current sink) plus the current set of DAG tips
type ConsensusStateStore interface {
	StageVirtualUTXODiff(stagingArea *StagingArea, utxoDiff UTXODiff)
	UTXOByOutpoint(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)
	HasUTXOByOutpoint(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (bool, error)
	VirtualUTXOSetIterator(dbContext DBReader, stagingArea *StagingArea) (ReadOnlyUTXOSetIterator, error)
	StageTips(stagingArea *StagingArea, tipHashes []*externalapi.DomainHash)
	Tips(dbContext DBReader, stagingArea *StagingArea) ([]*externalapi.DomainHash, error)
	IsStaged(stagingArea *StagingArea) bool
}

// UTXODiffStore stages and persists each chain block's UTXO diff relative to
// its selected parent, used to reconstruct historical UTXO views
type UTXODiffStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, utxoDiff UTXODiff, utxoDiffChild *externalapi.DomainHash)
	IsStaged(stagingArea *StagingArea) bool
	UTXODiff(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (UTXODiff, error)
	UTXODiffChild(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error)
}

// MultisetStore stages and persists the MuHash multiset associated with each
// chain block's post-application UTXO set
type MultisetStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, multiset Multiset)
	IsStaged(stagingArea *StagingArea) bool
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (Multiset, error)
}

// AcceptanceDataStore stages and persists the acceptance data produced for
// each block by the virtual/UTXO engine
type AcceptanceDataStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, acceptanceData externalapi.AcceptanceData)
	IsStaged(stagingArea *StagingArea) bool
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (externalapi.AcceptanceData, error)
}

// PruningStore stages and persists the current pruning point, its proof, and
// the serialized snapshot used while importing a new one
type PruningStore interface {
	StagePruningPoint(stagingArea *StagingArea, pruningPointHash *externalapi.DomainHash)
	PruningPoint(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)
	StagePruningPointProof(stagingArea *StagingArea, proof *PruningPointProof)
	PruningPointProof(dbContext DBReader, stagingArea *StagingArea) (*PruningPointProof, error)
	IsStaged(stagingArea *StagingArea) bool
}
