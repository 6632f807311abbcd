// Package pastmediantimemanager computes a block's past median time: the
// median timestamp over its difficulty window, used to bound how far into
// the past a child block's own timestamp may regress.
package pastmediantimemanager

import (
	"sort"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// pastMedianTimeManager provides a method to resolve the past median time of a block
type pastMedianTimeManager struct {
	databaseContext     model.DBReader
	dagTraversalManager model.DAGTraversalManager
	blockHeaderStore    model.BlockHeaderStore

	windowSize                int
	sampledWindowSize         int
	sampleRate                int
	sampledDAAScoreActivation uint64
}

// New instantiates a new PastMedianTimeManager. windowSize is the legacy
// (pre-sampling) window size; sampledWindowSize/sampleRate govern the window
// once a block's DAA score reaches sampledDAAScoreActivation.
func New(
	databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager,
	blockHeaderStore model.BlockHeaderStore,
	windowSize, sampledWindowSize, sampleRate int,
	sampledDAAScoreActivation uint64) model.PastMedianTimeManager {

	return &pastMedianTimeManager{
		databaseContext:           databaseContext,
		dagTraversalManager:       dagTraversalManager,
		blockHeaderStore:          blockHeaderStore,
		windowSize:                windowSize,
		sampledWindowSize:         sampledWindowSize,
		sampleRate:                sampleRate,
		sampledDAAScoreActivation: sampledDAAScoreActivation,
	}
}

// PastMedianTime returns the past median time for the given block
func (pmtm *pastMedianTimeManager) PastMedianTime(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (int64, error) {

	header, err := pmtm.blockHeaderStore.BlockHeader(pmtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, err
	}

	var window model.BlockWindowHeap
	if header.DAAScore >= pmtm.sampledDAAScoreActivation {
		window, err = pmtm.dagTraversalManager.SampledBlockWindow(stagingArea, blockHash, pmtm.sampledWindowSize, pmtm.sampleRate)
	} else {
		window, err = pmtm.dagTraversalManager.BlockWindow(stagingArea, blockHash, pmtm.windowSize)
	}
	if err != nil {
		return 0, err
	}

	return windowMedianTimestamp(window)
}

func windowMedianTimestamp(window model.BlockWindowHeap) (int64, error) {
	if len(window) == 0 {
		return 0, errors.New("cannot calculate median timestamp for an empty block window")
	}

	timestamps := make([]int64, len(window))
	for i, element := range window {
		timestamps[i] = element.Timestamp
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})

	return timestamps[len(timestamps)/2], nil
}
