package difficultymanager

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
)

// EstimateNetworkHashesPerSecond estimates the network's hashes-per-second
// rate from the blue work accumulated and time elapsed across the virtual
// block's last windowSize-block window.
func (dm *difficultyManager) EstimateNetworkHashesPerSecond(stagingArea *model.StagingArea, windowSize int) (uint64, error) {
	window, err := dm.dagTraversalManager.BlockWindow(stagingArea, model.VirtualBlockHash, windowSize)
	if err != nil {
		return 0, err
	}
	if len(window) == 0 {
		return 0, nil
	}

	minBlueWork, maxBlueWork := window[0].BlueWork, window[0].BlueWork
	minTimestamp, maxTimestamp := window[0].Timestamp, window[0].Timestamp
	for _, element := range window[1:] {
		if element.BlueWork.Cmp(minBlueWork) < 0 {
			minBlueWork = element.BlueWork
		}
		if element.BlueWork.Cmp(maxBlueWork) > 0 {
			maxBlueWork = element.BlueWork
		}
		if element.Timestamp < minTimestamp {
			minTimestamp = element.Timestamp
		}
		if element.Timestamp > maxTimestamp {
			maxTimestamp = element.Timestamp
		}
	}

	elapsedMillis := maxTimestamp - minTimestamp
	if elapsedMillis <= 0 {
		return 0, nil
	}

	workDelta := new(big.Int).Sub(maxBlueWork, minBlueWork)
	if workDelta.Sign() <= 0 {
		return 0, nil
	}

	hashesPerSecond := new(big.Int).Mul(workDelta, big.NewInt(1000))
	hashesPerSecond.Div(hashesPerSecond, big.NewInt(elapsedMillis))

	return hashesPerSecond.Uint64(), nil
}
