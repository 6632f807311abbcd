package blockvalidator

import (
	"fmt"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
)

// ValidateHeaderInContext validates a header against the rules that depend on
// the rest of the DAG: that its parents actually exist and aren't each
// other's ancestors, that GHOSTDAG resolves it within the mergeset size
// limit, that its DAA score, difficulty bits and pruning point field are the
// ones the DAG's history implies, and that its timestamp clears the past
// median time
func (v *blockValidator) ValidateHeaderInContext(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	header, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkParentsExist(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	err = v.checkParentsIncest(stagingArea, header)
	if err != nil {
		return err
	}

	err = v.ghostdagManager.GHOSTDAG(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkMergeSetSizeLimit(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkPastMedianTime(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	err = v.checkDAAScore(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	err = v.checkDifficulty(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	err = v.checkPruningPoint(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	return nil
}

func (v *blockValidator) checkParentsExist(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	missingParents := []*externalapi.DomainHash{}
	for _, parent := range header.Parents() {
		exists, err := v.blockHeaderStore.HasBlockHeader(v.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		if !exists {
			missingParents = append(missingParents, parent)
			continue
		}

		status, err := v.blockStatusStore.Get(v.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		if status == externalapi.StatusInvalid {
			return ruleerrors.NewRuleError(ruleerrors.ErrInvalidParentsRelation,
				fmt.Sprintf("parent %s of block %s is invalid", parent, blockHash))
		}
	}

	if len(missingParents) > 0 {
		return ruleerrors.NewRuleError(ruleerrors.ErrMissingParents,
			fmt.Sprintf("block %s is missing parents %s", blockHash, missingParents))
	}
	return nil
}

// checkParentsIncest rejects a header where one declared parent is an
// ancestor of another; GHOSTDAG's mergeset construction assumes parents are
// pairwise unrelated
func (v *blockValidator) checkParentsIncest(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	parents := header.Parents()
	for i, parentA := range parents {
		for j, parentB := range parents {
			if i == j {
				continue
			}
			isAncestor, err := v.dagTopologyManager.IsAncestorOf(stagingArea, parentA, parentB)
			if err != nil {
				return err
			}
			if isAncestor {
				return ruleerrors.NewRuleError(ruleerrors.ErrInvalidParentsRelation,
					fmt.Sprintf("parent %s is an ancestor of another parent %s", parentA, parentB))
			}
		}
	}
	return nil
}

func (v *blockValidator) checkMergeSetSizeLimit(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	ghostdagData, err := v.ghostdagDataStore.Get(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	mergeSetSize := uint64(len(ghostdagData.MergeSetBlues()) + len(ghostdagData.MergeSetReds()))
	if mergeSetSize > v.mergeSetSizeLimit {
		return ruleerrors.NewRuleError(ruleerrors.ErrMergeSetTooBig,
			fmt.Sprintf("block merges %d blocks, exceeding the mergeset size limit of %d", mergeSetSize, v.mergeSetSizeLimit))
	}
	return nil
}

func (v *blockValidator) checkPastMedianTime(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	if len(header.Parents()) == 0 {
		return nil
	}

	pastMedianTime, err := v.pastMedianTimeManager.PastMedianTime(stagingArea, blockHash)
	if err != nil {
		return err
	}
	if header.TimeInMilliseconds <= pastMedianTime {
		return ruleerrors.NewRuleError(ruleerrors.ErrTimeTooOld,
			fmt.Sprintf("block timestamp of %d is not after past median time of %d", header.TimeInMilliseconds, pastMedianTime))
	}
	return nil
}

// checkDAAScore verifies daa_score = selected_parent.daa_score + the number
// of the block's own mergeset blues that fall inside its DAA window (the
// window itself is capped at daaWindowSize, so a mergeset larger than the
// window only contributes up to the cap)
func (v *blockValidator) checkDAAScore(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	ghostdagData, err := v.ghostdagDataStore.Get(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	selectedParent := ghostdagData.SelectedParent()
	if selectedParent == nil {
		if header.DAAScore != 0 {
			return ruleerrors.NewRuleError(ruleerrors.ErrUnexpectedDifficulty,
				fmt.Sprintf("genesis must have a DAA score of 0, got %d", header.DAAScore))
		}
		return nil
	}

	selectedParentHeader, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, selectedParent)
	if err != nil {
		return err
	}

	window, err := v.dagTraversalManager.BlockWindow(stagingArea, blockHash, v.daaWindowSize)
	if err != nil {
		return err
	}
	windowHashes := make(map[externalapi.DomainHash]struct{}, len(window))
	for _, element := range window {
		windowHashes[*element.Hash] = struct{}{}
	}

	mergedBluesInWindow := uint64(0)
	for _, blue := range ghostdagData.MergeSetBlues() {
		if _, ok := windowHashes[*blue]; ok {
			mergedBluesInWindow++
		}
	}

	expectedDAAScore := selectedParentHeader.DAAScore + mergedBluesInWindow
	if header.DAAScore != expectedDAAScore {
		return ruleerrors.NewRuleError(ruleerrors.ErrUnexpectedDifficulty,
			fmt.Sprintf("block DAA score of %d does not match the expected value of %d", header.DAAScore, expectedDAAScore))
	}
	return nil
}

func (v *blockValidator) checkDifficulty(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	expectedBits, err := v.difficultyManager.RequiredDifficulty(stagingArea, blockHash)
	if err != nil {
		return err
	}
	if header.Bits != expectedBits {
		return ruleerrors.NewRuleError(ruleerrors.ErrUnexpectedDifficulty,
			fmt.Sprintf("block difficulty bits of %x do not match the expected value of %x", header.Bits, expectedBits))
	}
	return nil
}

// checkPruningPoint verifies the header's declared pruning point is both the
// DAG's current pruning point and in the block's own past. A per-block
// historical pruning point (the point as it stood when this block's
// selected-parent chain was built, rather than the DAG's present one) needs
// the pruning manager's own pruning-point-by-block bookkeeping, not yet
// built; this is the simplified version of the check until that lands.
func (v *blockValidator) checkPruningPoint(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	if blockHash.Equal(v.genesisHash) {
		return nil
	}

	pruningPoint, err := v.pruningStore.PruningPoint(v.databaseContext, stagingArea)
	if err != nil {
		return err
	}

	if !header.PruningPoint.Equal(pruningPoint) {
		return ruleerrors.NewRuleError(ruleerrors.ErrPruningPointMismatch,
			fmt.Sprintf("block pruning point %s does not match the current pruning point %s", header.PruningPoint, pruningPoint))
	}

	isInPast, err := v.dagTopologyManager.IsAncestorOf(stagingArea, pruningPoint, blockHash)
	if err != nil {
		return err
	}
	if !isInPast {
		return ruleerrors.NewRuleError(ruleerrors.ErrPruningPointMismatch,
			fmt.Sprintf("pruning point %s is not in the past of block %s", pruningPoint, blockHash))
	}
	return nil
}
