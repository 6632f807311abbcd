package blockprocessor

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
)

// ValidateAndInsertImportedPruningPoint persists a pruning point block
// received as part of an IBD-from-proof handshake and imports the UTXO set
// snapshot accumulated for it via PruningManager.AppendImportedPruningPointUTXOs.
//
// Unlike ValidateAndInsertBlock, this doesn't wire the block into the DAG
// topology or fold a merge set into it: during IBD-from-proof the pruning
// point's ancestors aren't locally known yet, only that the pruning point
// proof already anchored it to genesis with sufficient accumulated work.
func (bp *blockProcessor) ValidateAndInsertImportedPruningPoint(newPruningPoint *externalapi.DomainBlock) error {
	stagingArea := model.NewStagingArea()
	blockHash := consensushashing.HeaderHash(newPruningPoint.Header)

	bp.blockHeaderStore.Stage(stagingArea, blockHash, newPruningPoint.Header)
	bp.blockStore.Stage(stagingArea, blockHash, newPruningPoint)

	err := bp.headerValidator.ValidateHeaderInIsolation(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = bp.bodyValidator.ValidateBodyInIsolation(stagingArea, blockHash)
	if err != nil {
		return err
	}

	bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOValid)

	err = bp.pruningManager.ImportPruningPointUTXOSet(stagingArea, blockHash)
	if err != nil {
		return err
	}

	return bp.commit(stagingArea)
}
