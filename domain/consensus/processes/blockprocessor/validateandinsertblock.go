package blockprocessor

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

// ValidateAndInsertBlock validates block against every consensus rule that
// doesn't require already knowing it's DAG-valid, folds its merge set into
// the UTXO state, and - if updateVirtual is set - recomputes the virtual
// block over the new tip set it now belongs to.
func (bp *blockProcessor) ValidateAndInsertBlock(block *externalapi.DomainBlock, updateVirtual bool) (
	*externalapi.BlockInsertionResult, error) {

	stagingArea := model.NewStagingArea()
	blockHash := consensushashing.HeaderHash(block.Header)

	alreadyKnown, err := bp.blockStatusStore.Exists(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if alreadyKnown {
		return nil, errors.Errorf("block %s is already known", blockHash)
	}

	// Idempotent: only actually bootstraps reachability data the first time
	// this consensus is ever given a block (i.e. the genesis block itself).
	err = bp.reachabilityManager.Init(stagingArea)
	if err != nil {
		return nil, err
	}

	bp.blockHeaderStore.Stage(stagingArea, blockHash, block.Header)
	bp.blockStore.Stage(stagingArea, blockHash, block)

	err = bp.dagTopologyManager.SetParents(stagingArea, blockHash, block.Header.Parents())
	if err != nil {
		return nil, err
	}

	err = bp.reachabilityManager.AddBlock(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	err = bp.headerValidator.ValidateHeaderInIsolation(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	// ValidateHeaderInContext computes and stages blockHash's GHOSTDAG data as
	// part of checking its merge set size, so it must run before anything
	// below that reads that data (acceptance-data calculation, in particular).
	err = bp.headerValidator.ValidateHeaderInContext(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusHeaderOnly)

	err = bp.bodyValidator.ValidateBodyInIsolation(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	err = bp.bodyValidator.ValidateBodyInContext(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	status, err := bp.resolveUTXOState(stagingArea, blockHash, block.Header)
	if err != nil {
		return nil, err
	}
	bp.blockStatusStore.Stage(stagingArea, blockHash, status)

	var virtualChangeSet *externalapi.VirtualChangeSet
	if updateVirtual {
		err = bp.dagTopologyManager.AddTip(stagingArea, blockHash)
		if err != nil {
			return nil, err
		}

		virtualChangeSet, err = bp.consensusStateManager.UpdateVirtual(stagingArea)
		if err != nil {
			return nil, err
		}

		err = bp.pruningManager.UpdatePruningPointByVirtual(stagingArea)
		if err != nil {
			return nil, err
		}
	} else {
		err = bp.dagTopologyManager.AddTip(stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
	}

	result, err := bp.buildInsertionResult(stagingArea, status, virtualChangeSet)
	if err != nil {
		return nil, err
	}

	err = bp.commit(stagingArea)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveUTXOState folds blockHash's merge set into the UTXO state it
// implies and checks the result against the block's claimed UTXO commitment.
// A mismatch doesn't invalidate the block outright - it disqualifies it from
// ever becoming a selected chain block, matching the teacher's treatment of
// a bad UTXO commitment as a DAG-valid-but-never-chain-selected block rather
// than an outright consensus violation.
func (bp *blockProcessor) resolveUTXOState(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) (externalapi.BlockStatus, error) {

	utxoDiff, acceptanceData, multiset, err := bp.consensusStateManager.CalculatePastUTXOAndAcceptanceData(stagingArea, blockHash)
	if err != nil {
		return externalapi.StatusInvalid, err
	}

	calculatedUTXOCommitment := multiset.Hash()
	if !header.UTXOCommitment.Equal(calculatedUTXOCommitment) {
		return externalapi.StatusDisqualifiedFromChain, nil
	}

	bp.utxoDiffStore.Stage(stagingArea, blockHash, utxoDiff, nil)
	bp.acceptanceDataStore.Stage(stagingArea, blockHash, acceptanceData)
	bp.multisetStore.Stage(stagingArea, blockHash, multiset)

	return externalapi.StatusUTXOValid, nil
}

func (bp *blockProcessor) buildInsertionResult(stagingArea *model.StagingArea, status externalapi.BlockStatus,
	virtualChangeSet *externalapi.VirtualChangeSet) (*externalapi.BlockInsertionResult, error) {

	result := &externalapi.BlockInsertionResult{BlockStatus: status}
	if virtualChangeSet == nil {
		return result, nil
	}

	result.SelectedParentChainChanges = virtualChangeSet.VirtualSelectedParentChainChanges
	result.VirtualSelectedParentBlueScore = virtualChangeSet.VirtualSelectedParentBlueScore
	result.VirtualDAAScore = virtualChangeSet.VirtualDAAScore
	result.UTXOChanges = &externalapi.UTXOChanges{
		Added:   map[externalapi.DomainOutpoint]*externalapi.UTXOEntry(virtualChangeSet.VirtualUTXODiff.ToAdd()),
		Removed: map[externalapi.DomainOutpoint]*externalapi.UTXOEntry(virtualChangeSet.VirtualUTXODiff.ToRemove()),
	}

	virtualSelectedParent, err := bp.consensusStateManager.VirtualSelectedParent(stagingArea)
	if err != nil {
		return nil, err
	}
	result.VirtualSelectedParentHash = virtualSelectedParent

	return result, nil
}
