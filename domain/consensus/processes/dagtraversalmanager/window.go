package dagtraversalmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// BlockWindow returns the windowSize blocks in highHash's blue past, walking
// the selected parent chain from highHash and collecting each chain block's
// own merge-set blues, in GHOSTDAG order. If fewer than windowSize blocks are
// available the window is padded with genesis.
func (dtm *dagTraversalManager) BlockWindow(stagingArea *model.StagingArea, highHash *externalapi.DomainHash,
	windowSize int) (model.BlockWindowHeap, error) {

	window := make(model.BlockWindowHeap, 0, windowSize)
	current := highHash

	for len(window) < windowSize {
		currentData, err := dtm.ghostdagManager.BlockData(stagingArea, current)
		if err != nil {
			return nil, err
		}
		if currentData.SelectedParent() == nil {
			break
		}

		for _, blue := range currentData.MergeSetBlues() {
			element, err := dtm.windowElement(stagingArea, blue)
			if err != nil {
				return nil, err
			}
			window = append(window, element)
			if len(window) == windowSize {
				break
			}
		}

		current = currentData.SelectedParent()
	}

	if len(window) < windowSize {
		// current has no selected parent, i.e. it's genesis: pad with it.
		genesisElement, err := dtm.windowElement(stagingArea, current)
		if err != nil {
			return nil, err
		}
		for len(window) < windowSize {
			window = append(window, genesisElement)
		}
	}

	return window, nil
}

// SampledBlockWindow returns a window of up to windowSize blocks sampled from
// highHash's selected parent chain: starting at highHash, one chain block is
// taken every sampleRate steps until windowSize samples are gathered or the
// chain is exhausted. Unlike BlockWindow, the sample is of selected-parent-chain
// blocks directly rather than their merge-set blues, since past-median-time and
// difficulty sampling only need an evenly-spaced slice of chain history, not an
// exhaustive blue-block accounting.
func (dtm *dagTraversalManager) SampledBlockWindow(stagingArea *model.StagingArea, highHash *externalapi.DomainHash,
	windowSize, sampleRate int) (model.BlockWindowHeap, error) {

	if sampleRate <= 0 {
		sampleRate = 1
	}

	window := make(model.BlockWindowHeap, 0, windowSize)
	current := highHash
	steps := 0

	for len(window) < windowSize {
		currentData, err := dtm.ghostdagManager.BlockData(stagingArea, current)
		if err != nil {
			return nil, err
		}

		if steps%sampleRate == 0 {
			element, err := dtm.windowElement(stagingArea, current)
			if err != nil {
				return nil, err
			}
			window = append(window, element)
		}

		if currentData.SelectedParent() == nil {
			break
		}
		current = currentData.SelectedParent()
		steps++
	}

	return window, nil
}

func (dtm *dagTraversalManager) windowElement(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*model.BlockWindowHeapElement, error) {

	data, err := dtm.ghostdagManager.BlockData(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	header, err := dtm.headerStore.BlockHeader(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	return &model.BlockWindowHeapElement{
		Hash:      blockHash,
		BlueWork:  data.BlueWork(),
		Timestamp: header.TimeInMilliseconds,
	}, nil
}
