package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/utxo"
)

// CalculatePastUTXOAndAcceptanceData folds blockHash's merge set into the UTXO
// set its selected parent carries, producing the UTXO diff blockHash itself
// contributes, the acceptance data describing which merge-set transactions
// were accepted, and the resulting UTXO-commitment multiset.
//
// Blue merge-set blocks are processed in order (selected parent first),
// applying every transaction that doesn't conflict with one already applied
// earlier in the same merge set; red merge-set blocks contribute nothing and
// are recorded as fully rejected.
func (csm *consensusStateManager) CalculatePastUTXOAndAcceptanceData(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (model.UTXODiff, externalapi.AcceptanceData, model.Multiset, error) {

	ghostdagData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, nil, nil, err
	}

	selectedParent := ghostdagData.SelectedParent()
	if selectedParent == nil {
		// blockHash is the genesis block: it has no merge set and starts from an empty UTXO state.
		return utxo.NewUTXODiff().ToImmutable(), externalapi.AcceptanceData{}, newMultiset(), nil
	}

	accumulatedMultiset, err := csm.baseMultisetFor(stagingArea, selectedParent)
	if err != nil {
		return nil, nil, nil, err
	}

	baseUTXOSet, err := csm.RestorePastUTXOSetIterator(stagingArea, selectedParent)
	if err != nil {
		return nil, nil, nil, err
	}
	view, err := newUTXOView(baseUTXOSet)
	if err != nil {
		return nil, nil, nil, err
	}

	accumulatedDiff := utxo.NewUTXODiff()
	acceptanceData := make(externalapi.AcceptanceData, 0, len(ghostdagData.MergeSetBlues())+len(ghostdagData.MergeSetReds()))

	selectedParentMedianTime, err := csm.pastMedianTimeManager.PastMedianTime(stagingArea, selectedParent)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, blue := range ghostdagData.MergeSetBlues() {
		blockAcceptanceData, err := csm.acceptBlock(stagingArea, blue, blockHash, selectedParentMedianTime,
			view, accumulatedDiff, accumulatedMultiset)
		if err != nil {
			return nil, nil, nil, err
		}
		acceptanceData = append(acceptanceData, blockAcceptanceData)
	}

	for _, red := range ghostdagData.MergeSetReds() {
		acceptanceData = append(acceptanceData, rejectBlock(red, csm.blockTransactionsOrEmpty(stagingArea, red)))
	}

	return accumulatedDiff.ToImmutable(), acceptanceData, accumulatedMultiset, nil
}

// acceptBlock applies blockHash's transactions on top of view+accumulatedDiff, in order,
// skipping any transaction that conflicts with one already applied earlier in the same
// merge set. povBlockHash is the block whose merge set blockHash belongs to, used for
// coinbase-maturity and lock-time context.
func (csm *consensusStateManager) acceptBlock(stagingArea *model.StagingArea, blockHash, povBlockHash *externalapi.DomainHash,
	selectedParentMedianTime int64, view *utxoView, accumulatedDiff model.MutableUTXODiff,
	accumulatedMultiset model.Multiset) (*externalapi.BlockAcceptanceData, error) {

	blueGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	transactions := csm.blockTransactionsOrEmpty(stagingArea, blockHash)
	txAcceptanceData := make([]*externalapi.TransactionAcceptanceData, len(transactions))

	for i, transaction := range transactions {
		if i == 0 {
			// the coinbase transaction has no inputs to validate or spend; its outputs are
			// an unconditional reward payout already computed by the coinbase manager.
			applyTransactionOutputs(transaction, blueGHOSTDAGData.BlueScore(), true, view, accumulatedDiff, accumulatedMultiset)
			txAcceptanceData[i] = &externalapi.TransactionAcceptanceData{
				Transaction: transaction,
				IsAccepted:  true,
			}
			continue
		}

		inputEntries, ok := view.populateInputs(transaction)
		if !ok {
			txAcceptanceData[i] = &externalapi.TransactionAcceptanceData{
				Transaction:                 transaction,
				IsAccepted:                  false,
				TransactionInputUTXOEntries: inputEntries,
			}
			continue
		}

		err := csm.transactionValidator.ValidateTransactionInContextAndPopulateFee(
			stagingArea, transaction, povBlockHash, selectedParentMedianTime)
		if err != nil {
			txAcceptanceData[i] = &externalapi.TransactionAcceptanceData{
				Transaction:                 transaction,
				IsAccepted:                  false,
				TransactionInputUTXOEntries: inputEntries,
			}
			continue
		}

		applyTransactionInputs(transaction, view, accumulatedDiff, accumulatedMultiset)
		applyTransactionOutputs(transaction, blueGHOSTDAGData.BlueScore(), false, view, accumulatedDiff, accumulatedMultiset)

		txAcceptanceData[i] = &externalapi.TransactionAcceptanceData{
			Transaction:                 transaction,
			Fee:                         transaction.Fee,
			IsAccepted:                  true,
			TransactionInputUTXOEntries: inputEntries,
		}
	}

	return &externalapi.BlockAcceptanceData{BlockHash: blockHash, TransactionAcceptanceData: txAcceptanceData}, nil
}

func rejectBlock(blockHash *externalapi.DomainHash, transactions []*externalapi.DomainTransaction) *externalapi.BlockAcceptanceData {
	txAcceptanceData := make([]*externalapi.TransactionAcceptanceData, len(transactions))
	for i, transaction := range transactions {
		txAcceptanceData[i] = &externalapi.TransactionAcceptanceData{Transaction: transaction, IsAccepted: false}
	}
	return &externalapi.BlockAcceptanceData{BlockHash: blockHash, TransactionAcceptanceData: txAcceptanceData}
}

func (csm *consensusStateManager) blockTransactionsOrEmpty(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) []*externalapi.DomainTransaction {
	block, err := csm.blockStore.Block(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil
	}
	return block.Transactions
}

func (csm *consensusStateManager) baseMultisetFor(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (model.Multiset, error) {
	m, err := csm.multisetStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return newMultiset(), nil
	}
	return m.Clone(), nil
}
