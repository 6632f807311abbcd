package difficultymanager

import (
	"math/big"
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/math"
)

type fakeDAGTraversalManager struct {
	window model.BlockWindowHeap
}

func (f *fakeDAGTraversalManager) SelectedParentChain(*model.StagingArea, *externalapi.DomainHash,
	*externalapi.DomainHash) ([]*externalapi.DomainHash, []*externalapi.DomainHash, error) {
	return nil, nil, nil
}
func (f *fakeDAGTraversalManager) BlockWindow(*model.StagingArea, *externalapi.DomainHash,
	int) (model.BlockWindowHeap, error) {
	return f.window, nil
}
func (f *fakeDAGTraversalManager) SampledBlockWindow(*model.StagingArea, *externalapi.DomainHash,
	int, int) (model.BlockWindowHeap, error) {
	return f.window, nil
}
func (f *fakeDAGTraversalManager) AnticoneSize(*model.StagingArea, *externalapi.DomainHash,
	*externalapi.DomainHash) (int, error) {
	return 0, nil
}
func (f *fakeDAGTraversalManager) Anticone(*model.StagingArea,
	*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return nil, nil
}

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

func TestRequiredDifficultyReturnsGenesisBitsOnEmptyWindow(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	blockHash := hashFromByte(1)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 0}

	dm := New(nil, &fakeDAGTraversalManager{}, headerStore,
		math.CompactToBig(0x207fffff), 5, 5, 2, 1000, 1000, 0x207fffff)
	stagingArea := model.NewStagingArea()

	bits, err := dm.RequiredDifficulty(stagingArea, blockHash)
	if err != nil {
		t.Fatalf("RequiredDifficulty: %+v", err)
	}
	if bits != 0x207fffff {
		t.Fatalf("expected genesis bits 0x207fffff on an empty window, got %x", bits)
	}
}

func TestRequiredDifficultyRaisesBitsWhenBlocksArriveFasterThanTarget(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	powMax := math.CompactToBig(0x207fffff)
	targetBits := math.BigToCompact(new(big.Int).Rsh(powMax, 4))

	window := make(model.BlockWindowHeap, 0, 4)
	for i := 0; i < 4; i++ {
		hash := hashFromByte(byte(i + 1))
		headerStore.headers[*hash] = &externalapi.DomainBlockHeader{Bits: targetBits}
		window = append(window, &model.BlockWindowHeapElement{
			Hash:      hash,
			BlueWork:  big.NewInt(int64(i)),
			Timestamp: int64(i) * 500, // half the 1000ms target spacing
		})
	}

	blockHash := hashFromByte(10)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 0}

	dm := New(nil, &fakeDAGTraversalManager{window: window}, headerStore,
		powMax, 4, 4, 2, 1000, 1000, 0x207fffff)
	stagingArea := model.NewStagingArea()

	bits, err := dm.RequiredDifficulty(stagingArea, blockHash)
	if err != nil {
		t.Fatalf("RequiredDifficulty: %+v", err)
	}

	newTarget := math.CompactToBig(bits)
	oldTarget := math.CompactToBig(targetBits)
	if newTarget.Cmp(oldTarget) >= 0 {
		t.Fatalf("expected a lower (harder) target when blocks arrive faster than the target spacing, got %s >= %s",
			newTarget, oldTarget)
	}
}

func TestRequiredDifficultyClampsToPowMax(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	powMax := math.CompactToBig(0x207fffff)

	window := make(model.BlockWindowHeap, 0, 2)
	for i := 0; i < 2; i++ {
		hash := hashFromByte(byte(i + 1))
		headerStore.headers[*hash] = &externalapi.DomainBlockHeader{Bits: 0x207fffff}
		window = append(window, &model.BlockWindowHeapElement{
			Hash:      hash,
			BlueWork:  big.NewInt(int64(i)),
			Timestamp: int64(i) * 100000, // much slower than the target spacing
		})
	}

	blockHash := hashFromByte(10)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 0}

	dm := New(nil, &fakeDAGTraversalManager{window: window}, headerStore,
		powMax, 2, 2, 2, 1000, 1000, 0x207fffff)
	stagingArea := model.NewStagingArea()

	bits, err := dm.RequiredDifficulty(stagingArea, blockHash)
	if err != nil {
		t.Fatalf("RequiredDifficulty: %+v", err)
	}
	if math.CompactToBig(bits).Cmp(powMax) > 0 {
		t.Fatalf("expected target clamped to powMax, got %s > %s", math.CompactToBig(bits), powMax)
	}
}

func TestEstimateNetworkHashesPerSecond(t *testing.T) {
	window := model.BlockWindowHeap{
		{Hash: hashFromByte(1), BlueWork: big.NewInt(0), Timestamp: 0},
		{Hash: hashFromByte(2), BlueWork: big.NewInt(2000), Timestamp: 2000},
	}

	dm := New(nil, &fakeDAGTraversalManager{window: window}, nil,
		math.CompactToBig(0x207fffff), 2, 2, 2, 1000, 1000, 0x207fffff)
	stagingArea := model.NewStagingArea()

	hashesPerSecond, err := dm.EstimateNetworkHashesPerSecond(stagingArea, 2)
	if err != nil {
		t.Fatalf("EstimateNetworkHashesPerSecond: %+v", err)
	}
	// 2000 work units over 2000ms is 1000 hashes/sec.
	if hashesPerSecond != 1000 {
		t.Fatalf("expected 1000 hashes/sec, got %d", hashesPerSecond)
	}
}
