package reachabilitymanager

import (
	"math/big"
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// fakeGHOSTDAGDataStore is a minimal in-memory model.GHOSTDAGDataStore, just
// enough to drive AddBlock in isolation from the real GHOSTDAG algorithm.
type fakeGHOSTDAGDataStore struct {
	data map[externalapi.DomainHash]*model.BlockGHOSTDAGData
}

func newFakeGHOSTDAGDataStore() *fakeGHOSTDAGDataStore {
	return &fakeGHOSTDAGDataStore{data: make(map[externalapi.DomainHash]*model.BlockGHOSTDAGData)}
}

func (f *fakeGHOSTDAGDataStore) Stage(_ *model.StagingArea, blockHash *externalapi.DomainHash, blockGHOSTDAGData *model.BlockGHOSTDAGData) {
	f.data[*blockHash] = blockGHOSTDAGData
}
func (f *fakeGHOSTDAGDataStore) IsStaged(_ *model.StagingArea) bool { return false }
func (f *fakeGHOSTDAGDataStore) Get(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	return f.data[*blockHash], nil
}

func (f *fakeGHOSTDAGDataStore) setSelectedParent(blockHash, selectedParent *externalapi.DomainHash, mergeSetReds ...*externalapi.DomainHash) {
	f.data[*blockHash] = model.NewBlockGHOSTDAGData(0, big.NewInt(0), selectedParent,
		[]*externalapi.DomainHash{selectedParent}, mergeSetReds, map[externalapi.DomainHash]model.KType{})
}

// unreachableDBReader is passed wherever a test never expects the store to
// fall through to the underlying database (every read should be satisfied by
// the staging area or the in-process cache).
type unreachableDBReader struct{}

func (unreachableDBReader) Get(*model.DBKey) ([]byte, error) {
	panic("unexpected database read in test")
}
func (unreachableDBReader) Has(*model.DBKey) (bool, error) {
	panic("unexpected database read in test")
}
func (unreachableDBReader) Cursor(*model.DBBucket) (model.DBCursor, error) {
	panic("unexpected database read in test")
}

func hashFromByte(b byte) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	hash[0] = b
	return &hash
}

func newTestManager() (model.ReachabilityManager, *fakeGHOSTDAGDataStore, *model.StagingArea) {
	ghostdagStore := newFakeGHOSTDAGDataStore()
	reachabilityStore := reachabilitydatastore.New()
	genesisHash := hashFromByte(0)
	rt := New(unreachableDBReader{}, ghostdagStore, reachabilityStore, genesisHash)
	stagingArea := model.NewStagingArea()
	return rt, ghostdagStore, stagingArea
}

func TestReachabilityTreeAncestry(t *testing.T) {
	rt, ghostdagStore, stagingArea := newTestManager()
	genesis := hashFromByte(0)

	if err := rt.Init(stagingArea); err != nil {
		t.Fatalf("Init: %+v", err)
	}

	blockA := hashFromByte(1)
	ghostdagStore.setSelectedParent(blockA, genesis)
	if err := rt.AddBlock(stagingArea, blockA); err != nil {
		t.Fatalf("AddBlock(A): %+v", err)
	}

	blockB := hashFromByte(2)
	ghostdagStore.setSelectedParent(blockB, blockA)
	if err := rt.AddBlock(stagingArea, blockB); err != nil {
		t.Fatalf("AddBlock(B): %+v", err)
	}

	isAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, genesis, blockB)
	if err != nil {
		t.Fatalf("IsReachabilityTreeAncestorOf(genesis, B): %+v", err)
	}
	if !isAncestor {
		t.Fatal("expected genesis to be a tree-ancestor of B")
	}

	isAncestor, err = rt.IsReachabilityTreeAncestorOf(stagingArea, blockB, genesis)
	if err != nil {
		t.Fatalf("IsReachabilityTreeAncestorOf(B, genesis): %+v", err)
	}
	if isAncestor {
		t.Fatal("did not expect B to be a tree-ancestor of genesis")
	}

	isAncestor, err = rt.IsReachabilityTreeAncestorOf(stagingArea, blockA, blockA)
	if err != nil {
		t.Fatalf("IsReachabilityTreeAncestorOf(A, A): %+v", err)
	}
	if !isAncestor {
		t.Fatal("expected a block to be a tree-ancestor of itself")
	}
}

func TestDAGAncestorViaFutureCoveringSet(t *testing.T) {
	rt, ghostdagStore, stagingArea := newTestManager()
	genesis := hashFromByte(0)

	if err := rt.Init(stagingArea); err != nil {
		t.Fatalf("Init: %+v", err)
	}

	blockA := hashFromByte(1)
	ghostdagStore.setSelectedParent(blockA, genesis)
	if err := rt.AddBlock(stagingArea, blockA); err != nil {
		t.Fatalf("AddBlock(A): %+v", err)
	}

	blockC := hashFromByte(2)
	ghostdagStore.setSelectedParent(blockC, genesis)
	if err := rt.AddBlock(stagingArea, blockC); err != nil {
		t.Fatalf("AddBlock(C): %+v", err)
	}

	// blockD's selected parent is A, but its mergeset also includes C, a
	// sibling reached only through a non-tree edge.
	blockD := hashFromByte(3)
	ghostdagStore.setSelectedParent(blockD, blockA, blockC)
	if err := rt.AddBlock(stagingArea, blockD); err != nil {
		t.Fatalf("AddBlock(D): %+v", err)
	}

	isTreeAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, blockC, blockD)
	if err != nil {
		t.Fatalf("IsReachabilityTreeAncestorOf(C, D): %+v", err)
	}
	if isTreeAncestor {
		t.Fatal("did not expect C to be a tree-ancestor of D")
	}

	isDAGAncestor, err := rt.IsDAGAncestorOf(stagingArea, blockC, blockD)
	if err != nil {
		t.Fatalf("IsDAGAncestorOf(C, D): %+v", err)
	}
	if !isDAGAncestor {
		t.Fatal("expected C to be a DAG-ancestor of D via the future covering set")
	}
}

func TestForwardAndBackwardChainIterator(t *testing.T) {
	rt, ghostdagStore, stagingArea := newTestManager()
	genesis := hashFromByte(0)

	if err := rt.Init(stagingArea); err != nil {
		t.Fatalf("Init: %+v", err)
	}

	blockA := hashFromByte(1)
	ghostdagStore.setSelectedParent(blockA, genesis)
	if err := rt.AddBlock(stagingArea, blockA); err != nil {
		t.Fatalf("AddBlock(A): %+v", err)
	}

	blockB := hashFromByte(2)
	ghostdagStore.setSelectedParent(blockB, blockA)
	if err := rt.AddBlock(stagingArea, blockB); err != nil {
		t.Fatalf("AddBlock(B): %+v", err)
	}

	blockC := hashFromByte(3)
	ghostdagStore.setSelectedParent(blockC, blockB)
	if err := rt.AddBlock(stagingArea, blockC); err != nil {
		t.Fatalf("AddBlock(C): %+v", err)
	}

	forward, err := rt.ForwardChainIterator(stagingArea, genesis, blockC)
	if err != nil {
		t.Fatalf("ForwardChainIterator: %+v", err)
	}
	var forwardPath []*externalapi.DomainHash
	for {
		hash, ok, err := forward.Next()
		if err != nil {
			t.Fatalf("forward.Next: %+v", err)
		}
		if !ok {
			break
		}
		forwardPath = append(forwardPath, hash)
	}
	expectedForward := []*externalapi.DomainHash{genesis, blockA, blockB, blockC}
	assertHashSequenceEqual(t, "forward", expectedForward, forwardPath)

	backward, err := rt.BackwardChainIterator(stagingArea, blockC, genesis)
	if err != nil {
		t.Fatalf("BackwardChainIterator: %+v", err)
	}
	var backwardPath []*externalapi.DomainHash
	for {
		hash, ok, err := backward.Next()
		if err != nil {
			t.Fatalf("backward.Next: %+v", err)
		}
		if !ok {
			break
		}
		backwardPath = append(backwardPath, hash)
	}
	expectedBackward := []*externalapi.DomainHash{blockC, blockB, blockA, genesis}
	assertHashSequenceEqual(t, "backward", expectedBackward, backwardPath)
}

func TestChainIteratorsRejectNonAncestor(t *testing.T) {
	rt, ghostdagStore, stagingArea := newTestManager()
	genesis := hashFromByte(0)

	if err := rt.Init(stagingArea); err != nil {
		t.Fatalf("Init: %+v", err)
	}

	blockA := hashFromByte(1)
	ghostdagStore.setSelectedParent(blockA, genesis)
	if err := rt.AddBlock(stagingArea, blockA); err != nil {
		t.Fatalf("AddBlock(A): %+v", err)
	}

	blockB := hashFromByte(2)
	ghostdagStore.setSelectedParent(blockB, genesis)
	if err := rt.AddBlock(stagingArea, blockB); err != nil {
		t.Fatalf("AddBlock(B): %+v", err)
	}

	if _, err := rt.ForwardChainIterator(stagingArea, blockA, blockB); err == nil {
		t.Fatal("expected an error iterating forward between two unrelated siblings")
	}
	if _, err := rt.BackwardChainIterator(stagingArea, blockA, blockB); err == nil {
		t.Fatal("expected an error iterating backward between two unrelated siblings")
	}
}

func TestReindexSubtreeGrowsCapacityWithoutMovingExistingChildren(t *testing.T) {
	rt, _, stagingArea := newTestManager()
	reachabilityRT := rt.(*reachabilityManager)

	root := hashFromByte(0)
	child := hashFromByte(1)

	rootInterval := &model.ReachabilityInterval{Start: 100, End: 104}
	reachabilityRT.reachabilityDataStore.StageReachabilityData(stagingArea, root, &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{Children: []*externalapi.DomainHash{child}, Interval: rootInterval},
	})
	childInterval := &model.ReachabilityInterval{Start: 100, End: 102}
	reachabilityRT.reachabilityDataStore.StageReachabilityData(stagingArea, child, &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{Parent: root, Interval: childInterval},
	})

	if err := reachabilityRT.reindexSubtree(stagingArea, root); err != nil {
		t.Fatalf("reindexSubtree: %+v", err)
	}

	rootData, err := reachabilityRT.reachabilityDataStore.ReachabilityData(unreachableDBReader{}, stagingArea, root)
	if err != nil {
		t.Fatalf("ReachabilityData(root): %+v", err)
	}
	if rootData.TreeNode.Interval.Start != 100 || rootData.TreeNode.Interval.End != 108 {
		t.Fatalf("expected root interval [100, 108), got [%d, %d)",
			rootData.TreeNode.Interval.Start, rootData.TreeNode.Interval.End)
	}

	childData, err := reachabilityRT.reachabilityDataStore.ReachabilityData(unreachableDBReader{}, stagingArea, child)
	if err != nil {
		t.Fatalf("ReachabilityData(child): %+v", err)
	}
	if childData.TreeNode.Interval.Start != 100 || childData.TreeNode.Interval.End != 102 {
		t.Fatal("reindexing the root must not move an existing child's interval")
	}
}

func assertHashSequenceEqual(t *testing.T, label string, expected, actual []*externalapi.DomainHash) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("%s: expected %d hashes, got %d", label, len(expected), len(actual))
	}
	for i := range expected {
		if !expected[i].Equal(actual[i]) {
			t.Fatalf("%s: position %d: expected %s, got %s", label, i, expected[i], actual[i])
		}
	}
}
