package pastmediantimemanager

import (
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

type fakeDAGTraversalManager struct {
	window                model.BlockWindowHeap
	sampledWindow         model.BlockWindowHeap
	lastSampledWindowSize int
	lastSampleRate        int
}

func (f *fakeDAGTraversalManager) SelectedParentChain(*model.StagingArea, *externalapi.DomainHash,
	*externalapi.DomainHash) ([]*externalapi.DomainHash, []*externalapi.DomainHash, error) {
	return nil, nil, nil
}
func (f *fakeDAGTraversalManager) BlockWindow(*model.StagingArea, *externalapi.DomainHash,
	int) (model.BlockWindowHeap, error) {
	return f.window, nil
}
func (f *fakeDAGTraversalManager) SampledBlockWindow(_ *model.StagingArea, _ *externalapi.DomainHash,
	windowSize, sampleRate int) (model.BlockWindowHeap, error) {
	f.lastSampledWindowSize, f.lastSampleRate = windowSize, sampleRate
	return f.sampledWindow, nil
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

func TestPastMedianTimeOfOddWindowIsMiddleTimestamp(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	blockHash := hashFromByte(1)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 0}

	window := model.BlockWindowHeap{
		{Hash: hashFromByte(2), Timestamp: 300},
		{Hash: hashFromByte(3), Timestamp: 100},
		{Hash: hashFromByte(4), Timestamp: 200},
	}

	pmtm := New(nil, &fakeDAGTraversalManager{window: window}, headerStore, 3, 3, 2, 1000)
	stagingArea := model.NewStagingArea()

	medianTime, err := pmtm.PastMedianTime(stagingArea, blockHash)
	if err != nil {
		t.Fatalf("PastMedianTime: %+v", err)
	}
	if medianTime != 200 {
		t.Fatalf("expected median timestamp 200, got %d", medianTime)
	}
}

func TestPastMedianTimeUsesSampledWindowOnceDAAScoreCrossesActivation(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	blockHash := hashFromByte(1)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 1000}

	traversalManager := &fakeDAGTraversalManager{
		sampledWindow: model.BlockWindowHeap{
			{Hash: hashFromByte(2), Timestamp: 50},
			{Hash: hashFromByte(3), Timestamp: 150},
			{Hash: hashFromByte(4), Timestamp: 250},
		},
	}

	pmtm := New(nil, traversalManager, headerStore, 10, 3, 2, 1000)
	stagingArea := model.NewStagingArea()

	medianTime, err := pmtm.PastMedianTime(stagingArea, blockHash)
	if err != nil {
		t.Fatalf("PastMedianTime: %+v", err)
	}
	if medianTime != 150 {
		t.Fatalf("expected median timestamp 150, got %d", medianTime)
	}
	if traversalManager.lastSampledWindowSize != 3 || traversalManager.lastSampleRate != 2 {
		t.Fatalf("expected SampledBlockWindow called with (3, 2), got (%d, %d)",
			traversalManager.lastSampledWindowSize, traversalManager.lastSampleRate)
	}
}

func TestPastMedianTimeErrorsOnEmptyWindow(t *testing.T) {
	headerStore := newFakeBlockHeaderStore()
	blockHash := hashFromByte(1)
	headerStore.headers[*blockHash] = &externalapi.DomainBlockHeader{DAAScore: 0}

	pmtm := New(nil, &fakeDAGTraversalManager{}, headerStore, 3, 3, 2, 1000)
	stagingArea := model.NewStagingArea()

	_, err := pmtm.PastMedianTime(stagingArea, blockHash)
	if err == nil {
		t.Fatalf("expected an error for an empty block window, got nil")
	}
}
