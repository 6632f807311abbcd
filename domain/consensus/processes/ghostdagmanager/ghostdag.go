package ghostdagmanager

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/math"
	"github.com/pkg/errors"
)

// GHOSTDAG computes and stages blockHash's GHOSTDAG data: its selected
// parent, the blue/red partition of its mergeset, and its blue score and
// blue work.
func (gm *ghostdagManager) GHOSTDAG(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	parents, err := gm.dagTopologyManager.Parents(stagingArea, blockHash)
	if err != nil {
		return err
	}

	if len(parents) == 0 {
		if !blockHash.Equal(gm.genesisHash) {
			return errors.Errorf("block %s has no parents and is not the genesis block", blockHash)
		}
		gm.ghostdagDataStore.Stage(stagingArea, blockHash, model.NewBlockGHOSTDAGData(
			0, new(big.Int), nil, nil, nil, make(map[externalapi.DomainHash]model.KType)))
		return nil
	}

	selectedParent, err := gm.ChooseSelectedParent(stagingArea, parents...)
	if err != nil {
		return err
	}

	mergeSetSlice, err := gm.mergeSet(stagingArea, selectedParent, parents)
	if err != nil {
		return err
	}

	selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, selectedParent)
	if err != nil {
		return err
	}

	blues := []*externalapi.DomainHash{selectedParent}
	bluesAnticoneSizes := make(map[externalapi.DomainHash]model.KType)
	bluesAnticoneSizes[*selectedParent] = 0

	// mergeSetSlice is sorted ascending (least blue-work first); candidates
	// are considered bluest-first, so walk it back to front.
	for i := len(mergeSetSlice) - 1; i >= 0; i-- {
		candidate := mergeSetSlice[i]

		isBlue, candidateAnticoneSize, anticoneSizeIncrements, err := gm.checkBlueCandidate(
			stagingArea, blockHash, selectedParent, blues, bluesAnticoneSizes, candidate)
		if err != nil {
			return err
		}
		if !isBlue {
			continue
		}

		blues = append(blues, candidate)
		bluesAnticoneSizes[*candidate] = candidateAnticoneSize
		for blue, increment := range anticoneSizeIncrements {
			bluesAnticoneSizes[blue] += increment
		}

		// The selected parent already occupies one slot, so K+1 blues is the cap.
		if model.KType(len(blues)) == gm.k+1 {
			break
		}
	}

	blueSet := make(map[externalapi.DomainHash]struct{}, len(blues))
	for _, blue := range blues {
		blueSet[*blue] = struct{}{}
	}

	reds := make([]*externalapi.DomainHash, 0, len(mergeSetSlice)-len(blues)+1)
	for _, candidate := range mergeSetSlice {
		if _, ok := blueSet[*candidate]; ok {
			continue
		}
		reds = append(reds, candidate)
	}

	blueWork, err := gm.calculateBlueWork(stagingArea, selectedParentGHOSTDAGData, blues)
	if err != nil {
		return err
	}

	blueScore := selectedParentGHOSTDAGData.BlueScore() + uint64(len(blues))

	gm.ghostdagDataStore.Stage(stagingArea, blockHash, model.NewBlockGHOSTDAGData(
		blueScore, blueWork, selectedParent, blues, reds, bluesAnticoneSizes))

	return nil
}

// checkBlueCandidate decides whether candidate preserves the mutual K-cluster
// property if added to blues: candidate's own anticone (restricted to blues)
// must not exceed K, and adding candidate must not push any existing blue's
// anticone past K either. It walks the selected parent chain of blockHash,
// since candidate's anticone restricted to any chain block's blues is exactly
// candidate's anticone restricted to blockHash's eventual blue set once that
// chain block's blues are all in candidate's past.
func (gm *ghostdagManager) checkBlueCandidate(stagingArea *model.StagingArea, blockHash, selectedParent *externalapi.DomainHash,
	blues []*externalapi.DomainHash, bluesAnticoneSizes map[externalapi.DomainHash]model.KType,
	candidate *externalapi.DomainHash) (isBlue bool, candidateAnticoneSize model.KType,
	anticoneSizeIncrements map[externalapi.DomainHash]model.KType, err error) {

	anticoneSizeIncrements = make(map[externalapi.DomainHash]model.KType)

	chainBlock := blockHash
	isFirst := true

	for {
		// blockHash's own GHOSTDAG data isn't staged yet (it's what's being
		// computed right now), so its own in-progress blues/sizes are used
		// directly instead of fetched from the store.
		var chainBlockBlues []*externalapi.DomainHash
		var chainBlockAnticoneSizes map[externalapi.DomainHash]model.KType
		var chainBlockSelectedParent *externalapi.DomainHash

		if chainBlock.Equal(blockHash) {
			chainBlockBlues = blues
			chainBlockAnticoneSizes = bluesAnticoneSizes
			chainBlockSelectedParent = selectedParent
		} else {
			chainBlockGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, chainBlock)
			if err != nil {
				return false, 0, nil, err
			}
			chainBlockBlues = chainBlockGHOSTDAGData.MergeSetBlues()
			chainBlockAnticoneSizes = chainBlockGHOSTDAGData.BluesAnticoneSizes()
			chainBlockSelectedParent = chainBlockGHOSTDAGData.SelectedParent()
		}

		// Once candidate is in the past of chainBlock, every blue still to be
		// considered is also in candidate's past, so the K-cluster property
		// can no longer be violated: candidate is blue.
		if !isFirst {
			isAncestor, err := gm.dagTopologyManager.IsAncestorOf(stagingArea, chainBlock, candidate)
			if err != nil {
				return false, 0, nil, err
			}
			if isAncestor {
				break
			}
		}

		for _, blue := range chainBlockBlues {
			if !isFirst && blue.Equal(chainBlock) {
				continue
			}
			isAncestor, err := gm.dagTopologyManager.IsAncestorOf(stagingArea, blue, candidate)
			if err != nil {
				return false, 0, nil, err
			}
			if isAncestor {
				continue
			}

			blueAnticoneSize, ok := anticoneSizeIncrements[*blue]
			if !ok {
				blueAnticoneSize = chainBlockAnticoneSizes[*blue]
			}

			candidateAnticoneSize++
			if candidateAnticoneSize > gm.k {
				// candidate's own anticone (restricted to blues) exceeds K.
				return false, 0, nil, nil
			}
			if blueAnticoneSize == gm.k {
				// blue already has K blues in its anticone; one more would break it.
				return false, 0, nil, nil
			}

			anticoneSizeIncrements[*blue] = blueAnticoneSize + 1
		}

		isFirst = false
		if chainBlockSelectedParent == nil {
			break
		}
		chainBlock = chainBlockSelectedParent
	}

	return true, candidateAnticoneSize, anticoneSizeIncrements, nil
}

// calculateBlueWork sums selectedParent's blue work with the proof-of-work
// each newly-selected blue contributed, i.e. 2**256 / (target(blue) + 1) for
// every blue other than the selected parent itself (already baked into
// selectedParent's own blue work).
func (gm *ghostdagManager) calculateBlueWork(stagingArea *model.StagingArea,
	selectedParentGHOSTDAGData *model.BlockGHOSTDAGData, blues []*externalapi.DomainHash) (*big.Int, error) {

	addedBlueWork := new(big.Int)
	for _, blue := range blues {
		header, err := gm.headerStore.BlockHeader(gm.databaseContext, stagingArea, blue)
		if err != nil {
			return nil, err
		}
		addedBlueWork.Add(addedBlueWork, headerBlockWork(header.Bits))
	}

	selectedParentBlueWork := selectedParentGHOSTDAGData.BlueWork()
	if selectedParentBlueWork == nil {
		selectedParentBlueWork = new(big.Int)
	}

	return new(big.Int).Add(selectedParentBlueWork, addedBlueWork), nil
}

var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// headerBlockWork converts a header's compact target into the amount of work
// a block with that target represents: 2**256 / (target+1).
func headerBlockWork(bits uint32) *big.Int {
	target := math.CompactToBig(bits)
	if target.Sign() <= 0 {
		return new(big.Int)
	}
	denominator := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(oneLsh256, denominator)
}
