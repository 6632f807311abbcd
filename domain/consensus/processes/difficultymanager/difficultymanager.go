// Package difficultymanager computes the required proof-of-work difficulty
// for a block from the target-per-block history of its difficulty window,
// and estimates network hashrate from the same window.
package difficultymanager

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/math"
	"github.com/pkg/errors"
)

// difficultyManager computes required difficulty bits by scaling the
// geometric mean target of a block's difficulty window by the ratio of
// observed to expected elapsed time across that window
type difficultyManager struct {
	databaseContext     model.DBReader
	dagTraversalManager model.DAGTraversalManager
	headerStore         model.BlockHeaderStore

	powMax                    *big.Int
	windowSize                int
	sampledWindowSize         int
	sampleRate                int
	sampledDAAScoreActivation uint64
	targetTimePerBlockMillis  int64
	genesisBits               uint32
}

// New instantiates a new DifficultyManager. windowSize is the legacy
// (pre-sampling) window size; sampledWindowSize/sampleRate govern the window
// once a block's DAA score reaches sampledDAAScoreActivation. genesisBits is
// returned directly for genesis and any block whose window comes up empty.
func New(
	databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager,
	headerStore model.BlockHeaderStore,
	powMax *big.Int,
	windowSize, sampledWindowSize, sampleRate int,
	sampledDAAScoreActivation uint64,
	targetTimePerBlockMillis int64,
	genesisBits uint32) model.DifficultyManager {

	return &difficultyManager{
		databaseContext:           databaseContext,
		dagTraversalManager:       dagTraversalManager,
		headerStore:               headerStore,
		powMax:                    powMax,
		windowSize:                windowSize,
		sampledWindowSize:         sampledWindowSize,
		sampleRate:                sampleRate,
		sampledDAAScoreActivation: sampledDAAScoreActivation,
		targetTimePerBlockMillis:  targetTimePerBlockMillis,
		genesisBits:               genesisBits,
	}
}

// RequiredDifficulty computes the compact target that blockHash's children
// must satisfy, following spec: the geometric mean target over blockHash's
// difficulty window, scaled by the ratio of the window's actual timespan to
// its expected timespan (windowSize/sampleRate steps at targetTimePerBlock
// each), clamped to powMax.
func (dm *difficultyManager) RequiredDifficulty(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (uint32, error) {

	header, err := dm.headerStore.BlockHeader(dm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, err
	}

	var window model.BlockWindowHeap
	var expectedTimespanMillis int64
	if header.DAAScore >= dm.sampledDAAScoreActivation {
		window, err = dm.dagTraversalManager.SampledBlockWindow(stagingArea, blockHash, dm.sampledWindowSize, dm.sampleRate)
		expectedTimespanMillis = int64(dm.sampledWindowSize) * int64(dm.sampleRate) * dm.targetTimePerBlockMillis
	} else {
		window, err = dm.dagTraversalManager.BlockWindow(stagingArea, blockHash, dm.windowSize)
		expectedTimespanMillis = int64(dm.windowSize) * dm.targetTimePerBlockMillis
	}
	if err != nil {
		return 0, err
	}

	if len(window) == 0 {
		return dm.genesisBits, nil
	}

	averageTarget, err := dm.averageTarget(stagingArea, window)
	if err != nil {
		return 0, err
	}

	minTimestamp, maxTimestamp := window[0].Timestamp, window[0].Timestamp
	for _, element := range window[1:] {
		if element.Timestamp < minTimestamp {
			minTimestamp = element.Timestamp
		}
		if element.Timestamp > maxTimestamp {
			maxTimestamp = element.Timestamp
		}
	}
	actualTimespanMillis := maxTimestamp - minTimestamp
	if actualTimespanMillis <= 0 {
		actualTimespanMillis = 1
	}

	newTarget := new(big.Int).Mul(averageTarget, big.NewInt(actualTimespanMillis))
	newTarget.Div(newTarget, big.NewInt(expectedTimespanMillis))

	if newTarget.Cmp(dm.powMax) > 0 {
		newTarget = dm.powMax
	}
	if newTarget.Sign() <= 0 {
		newTarget = big.NewInt(1)
	}

	return math.BigToCompact(newTarget), nil
}

// averageTarget returns the arithmetic mean of the per-block targets across
// window, derived from each element's header bits.
func (dm *difficultyManager) averageTarget(stagingArea *model.StagingArea, window model.BlockWindowHeap) (*big.Int, error) {
	targetSum := new(big.Int)
	for _, element := range window {
		header, err := dm.headerStore.BlockHeader(dm.databaseContext, stagingArea, element.Hash)
		if err != nil {
			return nil, err
		}
		targetSum.Add(targetSum, math.CompactToBig(header.Bits))
	}

	if len(window) == 0 {
		return nil, errors.New("cannot average the target of an empty window")
	}
	return targetSum.Div(targetSum, big.NewInt(int64(len(window)))), nil
}
