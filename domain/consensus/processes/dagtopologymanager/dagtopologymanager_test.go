package dagtopologymanager

import (
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/processes/reachabilitymanager"
)

type fakeBlockRelationStore struct {
	relations map[externalapi.DomainHash]*model.BlockRelations
}

func newFakeBlockRelationStore() *fakeBlockRelationStore {
	return &fakeBlockRelationStore{relations: make(map[externalapi.DomainHash]*model.BlockRelations)}
}

func (f *fakeBlockRelationStore) StageBlockRelation(_ *model.StagingArea, blockHash *externalapi.DomainHash, blockRelations *model.BlockRelations) {
	f.relations[*blockHash] = blockRelations
}
func (f *fakeBlockRelationStore) IsStaged(_ *model.StagingArea) bool { return false }
func (f *fakeBlockRelationStore) BlockRelation(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockRelations, error) {
	relations, ok := f.relations[*blockHash]
	if !ok {
		return &model.BlockRelations{}, nil
	}
	return relations, nil
}
func (f *fakeBlockRelationStore) Has(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	_, ok := f.relations[*blockHash]
	return ok, nil
}

type fakeConsensusStateStore struct {
	tips []*externalapi.DomainHash
}

func (f *fakeConsensusStateStore) StageVirtualUTXODiff(*model.StagingArea, model.UTXODiff) {}
func (f *fakeConsensusStateStore) UTXOByOutpoint(model.DBReader, *model.StagingArea, *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	return nil, nil
}
func (f *fakeConsensusStateStore) HasUTXOByOutpoint(model.DBReader, *model.StagingArea, *externalapi.DomainOutpoint) (bool, error) {
	return false, nil
}
func (f *fakeConsensusStateStore) VirtualUTXOSetIterator(model.DBReader, *model.StagingArea) (model.ReadOnlyUTXOSetIterator, error) {
	return nil, nil
}
func (f *fakeConsensusStateStore) StageTips(_ *model.StagingArea, tipHashes []*externalapi.DomainHash) {
	f.tips = tipHashes
}
func (f *fakeConsensusStateStore) Tips(model.DBReader, *model.StagingArea) ([]*externalapi.DomainHash, error) {
	return f.tips, nil
}
func (f *fakeConsensusStateStore) IsStaged(*model.StagingArea) bool { return false }

type unreachableDBReader struct{}

func (unreachableDBReader) Get(*model.DBKey) ([]byte, error) { panic("unexpected database read in test") }
func (unreachableDBReader) Has(*model.DBKey) (bool, error)   { panic("unexpected database read in test") }
func (unreachableDBReader) Cursor(*model.DBBucket) (model.DBCursor, error) {
	panic("unexpected database read in test")
}

type fakeGHOSTDAGDataStore struct {
	data map[externalapi.DomainHash]*model.BlockGHOSTDAGData
}

func (f *fakeGHOSTDAGDataStore) Stage(_ *model.StagingArea, blockHash *externalapi.DomainHash, blockGHOSTDAGData *model.BlockGHOSTDAGData) {
	f.data[*blockHash] = blockGHOSTDAGData
}
func (f *fakeGHOSTDAGDataStore) IsStaged(_ *model.StagingArea) bool { return false }
func (f *fakeGHOSTDAGDataStore) Get(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	return f.data[*blockHash], nil
}

func hashFromByte(b byte) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	hash[0] = b
	return &hash
}

func newTestTopologyManager(t *testing.T) (model.DAGTopologyManager, model.ReachabilityManager,
	*fakeBlockRelationStore, *fakeGHOSTDAGDataStore, *model.StagingArea) {
	t.Helper()
	genesisHash := hashFromByte(0)
	ghostdagStore := &fakeGHOSTDAGDataStore{data: make(map[externalapi.DomainHash]*model.BlockGHOSTDAGData)}
	ghostdagStore.data[*genesisHash] = model.NewBlockGHOSTDAGData(0, nil, nil, nil, nil, nil)

	reachabilityStore := reachabilitydatastore.New()
	reachabilityManager := reachabilitymanager.New(unreachableDBReader{}, ghostdagStore, reachabilityStore, genesisHash)

	stagingArea := model.NewStagingArea()
	if err := reachabilityManager.Init(stagingArea); err != nil {
		t.Fatalf("Init: %+v", err)
	}

	blockRelationStore := newFakeBlockRelationStore()
	blockRelationStore.relations[*genesisHash] = &model.BlockRelations{}
	consensusStateStore := &fakeConsensusStateStore{}

	topologyManager := New(unreachableDBReader{}, reachabilityManager, blockRelationStore, consensusStateStore)
	return topologyManager, reachabilityManager, blockRelationStore, ghostdagStore, stagingArea
}

// addBlock wires blockHash into both the block-relation store (direct DAG
// edges) and the reachability manager (selected-parent tree), mirroring what
// the block processor does for each accepted block.
func addBlock(t *testing.T, topologyManager model.DAGTopologyManager, reachabilityManager model.ReachabilityManager,
	stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, parents ...*externalapi.DomainHash) {
	t.Helper()
	if err := topologyManager.SetParents(stagingArea, blockHash, parents); err != nil {
		t.Fatalf("SetParents(%s): %+v", blockHash, err)
	}
	if err := reachabilityManager.AddBlock(stagingArea, blockHash); err != nil {
		t.Fatalf("AddBlock(%s): %+v", blockHash, err)
	}
	if err := topologyManager.AddTip(stagingArea, blockHash); err != nil {
		t.Fatalf("AddTip(%s): %+v", blockHash, err)
	}
}

func TestSetParentsWiresParentsAndChildren(t *testing.T) {
	topologyManager, _, _, _, stagingArea := newTestTopologyManager(t)
	genesis := hashFromByte(0)
	blockA := hashFromByte(1)

	if err := topologyManager.SetParents(stagingArea, blockA, []*externalapi.DomainHash{genesis}); err != nil {
		t.Fatalf("SetParents: %+v", err)
	}

	parents, err := topologyManager.Parents(stagingArea, blockA)
	if err != nil {
		t.Fatalf("Parents: %+v", err)
	}
	if len(parents) != 1 || !parents[0].Equal(genesis) {
		t.Fatalf("expected A's parents to be [genesis], got %v", parents)
	}

	children, err := topologyManager.Children(stagingArea, genesis)
	if err != nil {
		t.Fatalf("Children: %+v", err)
	}
	if len(children) != 1 || !children[0].Equal(blockA) {
		t.Fatalf("expected genesis's children to be [A], got %v", children)
	}

	isParent, err := topologyManager.IsParentOf(stagingArea, genesis, blockA)
	if err != nil {
		t.Fatalf("IsParentOf: %+v", err)
	}
	if !isParent {
		t.Fatal("expected genesis to be a parent of A")
	}

	isChild, err := topologyManager.IsChildOf(stagingArea, blockA, genesis)
	if err != nil {
		t.Fatalf("IsChildOf: %+v", err)
	}
	if !isChild {
		t.Fatal("expected A to be a child of genesis")
	}
}

func TestTipsTracksFrontier(t *testing.T) {
	topologyManager, reachabilityManager, _, ghostdagStore, stagingArea := newTestTopologyManager(t)
	genesis := hashFromByte(0)

	if err := topologyManager.AddTip(stagingArea, genesis); err != nil {
		t.Fatalf("AddTip(genesis): %+v", err)
	}

	blockA := hashFromByte(1)
	ghostdagStore.data[*blockA] = model.NewBlockGHOSTDAGData(1, nil, genesis, nil, nil, nil)
	addBlock(t, topologyManager, reachabilityManager, stagingArea, blockA, genesis)

	tips, err := topologyManager.Tips(stagingArea)
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	if len(tips) != 1 || !tips[0].Equal(blockA) {
		t.Fatalf("expected tips to be [A] after A supersedes genesis, got %v", tips)
	}
}

func TestIsInSelectedParentChainOfMatchesReachabilityTree(t *testing.T) {
	topologyManager, reachabilityManager, _, ghostdagStore, stagingArea := newTestTopologyManager(t)
	genesis := hashFromByte(0)

	blockA := hashFromByte(1)
	ghostdagStore.data[*blockA] = model.NewBlockGHOSTDAGData(1, nil, genesis, nil, nil, nil)
	addBlock(t, topologyManager, reachabilityManager, stagingArea, blockA, genesis)

	blockB := hashFromByte(2)
	ghostdagStore.data[*blockB] = model.NewBlockGHOSTDAGData(1, nil, genesis, nil, nil, nil)
	addBlock(t, topologyManager, reachabilityManager, stagingArea, blockB, genesis)

	isInChain, err := topologyManager.IsInSelectedParentChainOf(stagingArea, genesis, blockA)
	if err != nil {
		t.Fatalf("IsInSelectedParentChainOf(genesis, A): %+v", err)
	}
	if !isInChain {
		t.Fatal("expected genesis to be in A's selected parent chain")
	}

	isInChain, err = topologyManager.IsInSelectedParentChainOf(stagingArea, blockB, blockA)
	if err != nil {
		t.Fatalf("IsInSelectedParentChainOf(B, A): %+v", err)
	}
	if isInChain {
		t.Fatal("did not expect B, an unrelated block, to be in A's selected parent chain")
	}
}
