package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// PopulateTransactionWithUTXOEntries looks up the spent UTXO entry for every
// input of transaction in the virtual's committed UTXO set, so validators
// further down the pipeline (mempool acceptance, RPC fee estimation) don't
// each need their own store lookup.
func (csm *consensusStateManager) PopulateTransactionWithUTXOEntries(
	stagingArea *model.StagingArea, transaction *externalapi.DomainTransaction) error {

	for _, input := range transaction.Inputs {
		if input.UTXOEntry != nil {
			continue
		}
		entry, err := csm.consensusStateStore.UTXOByOutpoint(csm.databaseContext, stagingArea, &input.PreviousOutpoint)
		if err != nil {
			return errors.Wrapf(err, "missing spent UTXO entry for outpoint %+v", input.PreviousOutpoint)
		}
		input.UTXOEntry = entry
	}
	return nil
}
