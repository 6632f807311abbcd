package dagtraversalmanager

import (
	"math/big"
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

type fakeDAGTopologyManager struct {
	parents map[externalapi.DomainHash][]*externalapi.DomainHash
}

func newFakeDAGTopologyManager() *fakeDAGTopologyManager {
	return &fakeDAGTopologyManager{parents: make(map[externalapi.DomainHash][]*externalapi.DomainHash)}
}

func (f *fakeDAGTopologyManager) setParents(blockHash *externalapi.DomainHash, parents ...*externalapi.DomainHash) {
	f.parents[*blockHash] = parents
}

func (f *fakeDAGTopologyManager) Parents(_ *model.StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return f.parents[*blockHash], nil
}
func (f *fakeDAGTopologyManager) Children(*model.StagingArea, *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeDAGTopologyManager) IsParentOf(_ *model.StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return isHashInSlice(blockHashA, f.parents[*blockHashB]), nil
}
func (f *fakeDAGTopologyManager) IsChildOf(_ *model.StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return isHashInSlice(blockHashB, f.parents[*blockHashA]), nil
}

// IsAncestorOf does a plain BFS up the parents map; the test DAGs are tiny.
// A block is its own ancestor, matching the production reachability
// manager's interval-containment semantics (an interval contains itself).
func (f *fakeDAGTopologyManager) IsAncestorOf(_ *model.StagingArea, blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	if blockHashA.Equal(blockHashB) {
		return true, nil
	}
	queue := append([]*externalapi.DomainHash{}, f.parents[*blockHashB]...)
	visited := make(map[externalapi.DomainHash]struct{})
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]
		if current.Equal(blockHashA) {
			return true, nil
		}
		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}
		queue = append(queue, f.parents[*current]...)
	}
	return false, nil
}
func (f *fakeDAGTopologyManager) IsAncestorOfAny(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	potentialDescendants []*externalapi.DomainHash) (bool, error) {
	for _, descendant := range potentialDescendants {
		isAncestor, err := f.IsAncestorOf(stagingArea, blockHash, descendant)
		if err != nil {
			return false, err
		}
		if isAncestor {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeDAGTopologyManager) IsInSelectedParentChainOf(*model.StagingArea, *externalapi.DomainHash, *externalapi.DomainHash) (bool, error) {
	return false, nil
}
func (f *fakeDAGTopologyManager) Tips(*model.StagingArea) ([]*externalapi.DomainHash, error) { return nil, nil }
func (f *fakeDAGTopologyManager) AddTip(*model.StagingArea, *externalapi.DomainHash) error    { return nil }
func (f *fakeDAGTopologyManager) SetParents(_ *model.StagingArea, blockHash *externalapi.DomainHash, parents []*externalapi.DomainHash) error {
	f.parents[*blockHash] = parents
	return nil
}

func isHashInSlice(hash *externalapi.DomainHash, hashes []*externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}

type fakeGHOSTDAGManager struct {
	data map[externalapi.DomainHash]*model.BlockGHOSTDAGData
}

func newFakeGHOSTDAGManager() *fakeGHOSTDAGManager {
	return &fakeGHOSTDAGManager{data: make(map[externalapi.DomainHash]*model.BlockGHOSTDAGData)}
}

func (f *fakeGHOSTDAGManager) GHOSTDAG(*model.StagingArea, *externalapi.DomainHash) error { return nil }
func (f *fakeGHOSTDAGManager) ChooseSelectedParent(*model.StagingArea, ...*externalapi.DomainHash) (*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeGHOSTDAGManager) Less(*externalapi.DomainHash, *model.BlockGHOSTDAGData,
	*externalapi.DomainHash, *model.BlockGHOSTDAGData) bool {
	return false
}
func (f *fakeGHOSTDAGManager) BlockData(_ *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	return f.data[*blockHash], nil
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

type fakeBlockHeaderStore struct {
	headers map[externalapi.DomainHash]*externalapi.DomainBlockHeader
}

func newFakeBlockHeaderStore() *fakeBlockHeaderStore {
	return &fakeBlockHeaderStore{headers: make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader)}
}
func (f *fakeBlockHeaderStore) Stage(_ *model.StagingArea, blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) {
	f.headers[*blockHash] = header
}
func (f *fakeBlockHeaderStore) IsStaged(*model.StagingArea) bool { return false }
func (f *fakeBlockHeaderStore) BlockHeader(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	return f.headers[*blockHash], nil
}
func (f *fakeBlockHeaderStore) HasBlockHeader(_ model.DBReader, _ *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	_, ok := f.headers[*blockHash]
	return ok, nil
}
func (f *fakeBlockHeaderStore) Delete(_ *model.StagingArea, blockHash *externalapi.DomainHash) {
	delete(f.headers, *blockHash)
}
func (f *fakeBlockHeaderStore) Count(*model.StagingArea) uint64 { return uint64(len(f.headers)) }

func hashFromByte(b byte) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	hash[0] = b
	return &hash
}

// newChainTestSetup builds genesis -> A -> B -> C, a plain single-parent
// chain, wiring both the topology and GHOSTDAG data a real block processor
// would have produced for it.
func newChainTestSetup() (model.DAGTraversalManager, *fakeGHOSTDAGManager, *fakeBlockHeaderStore,
	genesis, blockA, blockB, blockC *externalapi.DomainHash) {

	topologyManager := newFakeDAGTopologyManager()
	ghostdagManager := newFakeGHOSTDAGManager()
	headerStore := newFakeBlockHeaderStore()
	consensusStateStore := &fakeConsensusStateStore{}

	genesis = hashFromByte(0)
	blockA = hashFromByte(1)
	blockB = hashFromByte(2)
	blockC = hashFromByte(3)

	topologyManager.setParents(blockA, genesis)
	topologyManager.setParents(blockB, blockA)
	topologyManager.setParents(blockC, blockB)

	ghostdagManager.data[*genesis] = model.NewBlockGHOSTDAGData(0, big.NewInt(0), nil, nil, nil, nil)
	ghostdagManager.data[*blockA] = model.NewBlockGHOSTDAGData(1, big.NewInt(1), genesis,
		[]*externalapi.DomainHash{genesis}, nil, nil)
	ghostdagManager.data[*blockB] = model.NewBlockGHOSTDAGData(2, big.NewInt(2), blockA,
		[]*externalapi.DomainHash{blockA}, nil, nil)
	ghostdagManager.data[*blockC] = model.NewBlockGHOSTDAGData(3, big.NewInt(3), blockB,
		[]*externalapi.DomainHash{blockB}, nil, nil)

	for _, hash := range []*externalapi.DomainHash{genesis, blockA, blockB, blockC} {
		headerStore.headers[*hash] = &externalapi.DomainBlockHeader{TimeInMilliseconds: int64(hash[0])}
	}

	dtm := New(nil, topologyManager, ghostdagManager, consensusStateStore, headerStore)
	return dtm, ghostdagManager, headerStore, genesis, blockA, blockB, blockC
}

func TestBlockWindowFillsFromMergeSetBluesThenPadsWithGenesis(t *testing.T) {
	dtm, _, _, genesis, blockA, blockB, _ := newChainTestSetup()
	stagingArea := model.NewStagingArea()

	window, err := dtm.BlockWindow(stagingArea, blockB, 3)
	if err != nil {
		t.Fatalf("BlockWindow(B, 3): %+v", err)
	}
	assertWindowHashes(t, window, blockA, genesis, genesis)
}

func TestBlockWindowExactFitNeedsNoPadding(t *testing.T) {
	dtm, _, _, genesis, blockA, blockB, blockC := newChainTestSetup()
	stagingArea := model.NewStagingArea()

	window, err := dtm.BlockWindow(stagingArea, blockC, 3)
	if err != nil {
		t.Fatalf("BlockWindow(C, 3): %+v", err)
	}
	assertWindowHashes(t, window, blockB, blockA, genesis)
}

func TestSampledBlockWindowSkipsBySampleRate(t *testing.T) {
	dtm, _, _, _, blockA, _, blockC := newChainTestSetup()
	stagingArea := model.NewStagingArea()

	window, err := dtm.SampledBlockWindow(stagingArea, blockC, 2, 2)
	if err != nil {
		t.Fatalf("SampledBlockWindow(C, 2, 2): %+v", err)
	}
	assertWindowHashes(t, window, blockC, blockA)
}

func assertWindowHashes(t *testing.T, window model.BlockWindowHeap, expected ...*externalapi.DomainHash) {
	t.Helper()
	if len(window) != len(expected) {
		t.Fatalf("expected window of length %d, got %d", len(expected), len(window))
	}
	for i, element := range window {
		if !element.Hash.Equal(expected[i]) {
			t.Fatalf("expected window[%d] to be %s, got %s", i, expected[i], element.Hash)
		}
	}
}

func TestSelectedParentChainFindsSplitPointOnLinearChain(t *testing.T) {
	dtm, _, _, genesis, blockA, blockB, blockC := newChainTestSetup()
	stagingArea := model.NewStagingArea()

	removed, added, err := dtm.SelectedParentChain(stagingArea, blockC, genesis)
	if err != nil {
		t.Fatalf("SelectedParentChain(C, genesis): %+v", err)
	}
	if len(added) != 0 {
		t.Fatalf("expected no added blocks walking back to genesis, got %v", added)
	}
	assertHashSlice(t, removed, blockC, blockB, blockA)

	removed, added, err = dtm.SelectedParentChain(stagingArea, genesis, blockC)
	if err != nil {
		t.Fatalf("SelectedParentChain(genesis, C): %+v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed walking forward from genesis, got %v", removed)
	}
	assertHashSlice(t, added, blockA, blockB, blockC)
}

func assertHashSlice(t *testing.T, got []*externalapi.DomainHash, expected ...*externalapi.DomainHash) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d hashes, got %d (%v)", len(expected), len(got), got)
	}
	for i, hash := range got {
		if !hash.Equal(expected[i]) {
			t.Fatalf("expected element %d to be %s, got %s", i, expected[i], hash)
		}
	}
}

func TestAnticoneSizeIsZeroOnALinearChain(t *testing.T) {
	dtm, _, _, genesis, _, _, blockC := newChainTestSetup()
	stagingArea := model.NewStagingArea()

	size, err := dtm.AnticoneSize(stagingArea, genesis, blockC)
	if err != nil {
		t.Fatalf("AnticoneSize(genesis, C): %+v", err)
	}
	if size != 0 {
		t.Fatalf("expected no anticone on a linear chain, got %d", size)
	}
}

func TestAnticoneSizeCountsUnrelatedMergedSibling(t *testing.T) {
	topologyManager := newFakeDAGTopologyManager()
	ghostdagManager := newFakeGHOSTDAGManager()
	headerStore := newFakeBlockHeaderStore()
	consensusStateStore := &fakeConsensusStateStore{}

	genesis := hashFromByte(0)
	blockA := hashFromByte(1)
	blockD := hashFromByte(4)
	blockE := hashFromByte(5)

	// genesis -> A, genesis -> D (siblings), E merges A and D with A as
	// selected parent.
	topologyManager.setParents(blockA, genesis)
	topologyManager.setParents(blockD, genesis)
	topologyManager.setParents(blockE, blockA, blockD)

	ghostdagManager.data[*genesis] = model.NewBlockGHOSTDAGData(0, big.NewInt(0), nil, nil, nil, nil)
	ghostdagManager.data[*blockA] = model.NewBlockGHOSTDAGData(1, big.NewInt(1), genesis,
		[]*externalapi.DomainHash{genesis}, nil, nil)
	ghostdagManager.data[*blockD] = model.NewBlockGHOSTDAGData(1, big.NewInt(1), genesis,
		[]*externalapi.DomainHash{genesis}, nil, nil)
	ghostdagManager.data[*blockE] = model.NewBlockGHOSTDAGData(3, big.NewInt(3), blockA,
		[]*externalapi.DomainHash{blockA, blockD}, nil, nil)

	dtm := New(nil, topologyManager, ghostdagManager, consensusStateStore, headerStore)
	stagingArea := model.NewStagingArea()

	size, err := dtm.AnticoneSize(stagingArea, blockA, blockE)
	if err != nil {
		t.Fatalf("AnticoneSize(A, E): %+v", err)
	}
	if size != 1 {
		t.Fatalf("expected A's anticone restricted to E's past to contain only D, got size %d", size)
	}

	size, err = dtm.AnticoneSize(stagingArea, blockD, blockE)
	if err != nil {
		t.Fatalf("AnticoneSize(D, E): %+v", err)
	}
	if size != 1 {
		t.Fatalf("expected D's anticone restricted to E's past to contain only A, got size %d", size)
	}
}

func TestAnticoneFindsUnrelatedTip(t *testing.T) {
	topologyManager := newFakeDAGTopologyManager()
	ghostdagManager := newFakeGHOSTDAGManager()
	headerStore := newFakeBlockHeaderStore()

	genesis := hashFromByte(0)
	blockA := hashFromByte(1)
	blockD := hashFromByte(4)

	topologyManager.setParents(blockA, genesis)
	topologyManager.setParents(blockD, genesis)

	consensusStateStore := &fakeConsensusStateStore{tips: []*externalapi.DomainHash{blockA, blockD}}
	dtm := New(nil, topologyManager, ghostdagManager, consensusStateStore, headerStore)
	stagingArea := model.NewStagingArea()

	anticone, err := dtm.Anticone(stagingArea, blockA)
	if err != nil {
		t.Fatalf("Anticone(A): %+v", err)
	}
	assertHashSlice(t, anticone, blockD)
}
