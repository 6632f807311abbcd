package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// AddBlock adds blockHash to the DAG's tip set (dropping any tips it now
// supersedes) and recomputes the virtual block over the new tip set,
// returning the resulting change to the virtual's selected parent chain.
func (csm *consensusStateManager) AddBlock(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.SelectedParentChainChanges, error) {

	err := csm.dagTopologyManager.AddTip(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	virtualChangeSet, err := csm.UpdateVirtual(stagingArea)
	if err != nil {
		return nil, err
	}

	return virtualChangeSet.VirtualSelectedParentChainChanges, nil
}
