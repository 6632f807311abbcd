package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// UpdateVirtual recomputes the virtual block from the current tip set: its
// GHOSTDAG data (and hence its selected parent), the UTXO diff and acceptance
// data produced by folding every newly-merged block into the committed UTXO
// set, and the resulting selected-parent-chain change.
func (csm *consensusStateManager) UpdateVirtual(stagingArea *model.StagingArea) (*externalapi.VirtualChangeSet, error) {
	var oldVirtualSelectedParent *externalapi.DomainHash
	oldVirtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err == nil {
		oldVirtualSelectedParent = oldVirtualGHOSTDAGData.SelectedParent()
	}

	tips, err := csm.dagTopologyManager.Tips(stagingArea)
	if err != nil {
		return nil, err
	}

	err = csm.dagTopologyManager.SetParents(stagingArea, model.VirtualBlockHash, tips)
	if err != nil {
		return nil, err
	}

	err = csm.ghostdagManager.GHOSTDAG(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}

	virtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	newVirtualSelectedParent := virtualGHOSTDAGData.SelectedParent()

	removedChainBlocks, addedChainBlocks, err := csm.dagTraversalManager.SelectedParentChain(
		stagingArea, oldVirtualSelectedParent, newVirtualSelectedParent)
	if err != nil {
		return nil, err
	}
	chainChanges := &externalapi.SelectedParentChainChanges{Added: addedChainBlocks, Removed: removedChainBlocks}

	utxoDiff, acceptanceData, multiset, err := csm.CalculatePastUTXOAndAcceptanceData(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}

	csm.consensusStateStore.StageVirtualUTXODiff(stagingArea, utxoDiff)
	csm.consensusStateStore.StageTips(stagingArea, tips)
	csm.acceptanceDataStore.Stage(stagingArea, model.VirtualBlockHash, acceptanceData)
	csm.multisetStore.Stage(stagingArea, model.VirtualBlockHash, multiset)

	return &externalapi.VirtualChangeSet{
		VirtualSelectedParentChainChanges: chainChanges,
		VirtualUTXODiff:                   utxoDiff,
		VirtualParents:                    tips,
		VirtualSelectedParentBlueScore:    virtualGHOSTDAGData.BlueScore(),
		VirtualDAAScore:                   virtualGHOSTDAGData.BlueScore(),
	}, nil
}

// VirtualSelectedParent returns the selected parent of the current virtual block
func (csm *consensusStateManager) VirtualSelectedParent(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	virtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	return virtualGHOSTDAGData.SelectedParent(), nil
}
