package model

// StagingShardID identifies which store a StagingShard belongs to within a StagingArea
type StagingShardID int

// The full set of stores that participate in a staged, single-batch commit
const (
	StagingShardIDBlockRelation StagingShardID = iota
	StagingShardIDReachability
	StagingShardIDGHOSTDAG
	StagingShardIDBlockHeader
	StagingShardIDBlockStatus
	StagingShardIDBlockStore
	StagingShardIDConsensusState
	StagingShardIDUTXODiff
	StagingShardIDMultiset
	StagingShardIDPruning
	StagingShardIDAcceptanceData
	StagingShardIDTips
	StagingShardIDHeaderTips
)

// StagingShard is the per-store slice of uncommitted changes held by a StagingArea
type StagingShard interface {
	Commit(dbTx DBTransaction) error
}

// StagingArea accumulates every store's pending writes for a single logical
// operation (e.g. validating and inserting one block) so that they can be
// flushed to the database as one atomic batch. This is the mechanism behind
// the "each pipeline commit writes a batch atomically" guarantee.
type StagingArea struct {
	shards      map[StagingShardID]StagingShard
	onCommitted []func()
}

// NewStagingArea creates a new, empty StagingArea
func NewStagingArea() *StagingArea {
	return &StagingArea{shards: make(map[StagingShardID]StagingShard)}
}

// GetOrCreateShard returns the shard registered under id, creating it via
// create() the first time it's requested within this StagingArea's lifetime
func (sa *StagingArea) GetOrCreateShard(id StagingShardID, create func() StagingShard) StagingShard {
	if shard, ok := sa.shards[id]; ok {
		return shard
	}
	shard := create()
	sa.shards[id] = shard
	return shard
}

// OnCommitted registers a callback invoked after a successful Commit, e.g. to
// update an in-memory cache from what had been staged
func (sa *StagingArea) OnCommitted(callback func()) {
	sa.onCommitted = append(sa.onCommitted, callback)
}

// Commit flushes every staged shard into the given transaction in an
// unspecified order; callers are expected to pass an already-open DBTransaction
// and to Commit() it after this call succeeds
func (sa *StagingArea) Commit(dbTx DBTransaction) error {
	for _, shard := range sa.shards {
		err := shard.Commit(dbTx)
		if err != nil {
			return err
		}
	}
	for _, callback := range sa.onCommitted {
		callback()
	}
	return nil
}
