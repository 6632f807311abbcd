package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/multiset"
	"github.com/kaspanet/kaspad/domain/consensus/utils/utxo"
)

func newMultiset() model.Multiset {
	return multiset.New()
}

// utxoView is a mutable, in-memory materialization of a UTXO set, used to
// apply a merge set's transactions in order without round-tripping to the
// database for every input lookup.
type utxoView struct {
	entries map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
}

func newUTXOView(base model.ReadOnlyUTXOSetIterator) (*utxoView, error) {
	view := &utxoView{entries: make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry)}
	for ok := base.First(); ok; ok = base.Next() {
		outpoint, entry, err := base.Get()
		if err != nil {
			return nil, err
		}
		view.entries[*outpoint] = entry
	}
	return view, nil
}

// populateInputs looks up every input's spent UTXO entry in the view, setting
// transaction.Inputs[i].UTXOEntry. It returns false if any input is missing,
// meaning this transaction conflicts with one already applied.
func (v *utxoView) populateInputs(transaction *externalapi.DomainTransaction) ([]*externalapi.UTXOEntry, bool) {
	entries := make([]*externalapi.UTXOEntry, len(transaction.Inputs))
	for i, input := range transaction.Inputs {
		entry, ok := v.entries[input.PreviousOutpoint]
		if !ok {
			return entries, false
		}
		entries[i] = entry
		input.UTXOEntry = entry
	}
	return entries, true
}

func applyTransactionInputs(transaction *externalapi.DomainTransaction, view *utxoView,
	accumulatedDiff model.MutableUTXODiff, accumulatedMultiset model.Multiset) {

	for _, input := range transaction.Inputs {
		entry := input.UTXOEntry
		delete(view.entries, input.PreviousOutpoint)
		// errors are impossible here: the entry was just read out of the same accumulated
		// diff/view this call is building, so it can't already be staged for removal.
		_ = accumulatedDiff.RemoveEntry(input.PreviousOutpoint, entry)
		serialized, err := utxo.SerializeUTXO(entry, &input.PreviousOutpoint)
		if err == nil {
			accumulatedMultiset.Remove(serialized)
		}
	}
}

func applyTransactionOutputs(transaction *externalapi.DomainTransaction, blockBlueScore uint64, isCoinbase bool,
	view *utxoView, accumulatedDiff model.MutableUTXODiff, accumulatedMultiset model.Multiset) {

	transactionID := transaction.ID
	if transactionID == nil {
		id := externalapi.DomainTransactionID{}
		transactionID = &id
	}

	for index, output := range transaction.Outputs {
		outpoint := externalapi.DomainOutpoint{TransactionID: *transactionID, Index: uint32(index)}
		entry := utxo.NewUTXOEntry(output.Value, output.ScriptPublicKey, isCoinbase, blockBlueScore)
		view.entries[outpoint] = entry
		_ = accumulatedDiff.AddEntry(outpoint, entry)
		serialized, err := utxo.SerializeUTXO(entry, &outpoint)
		if err == nil {
			accumulatedMultiset.Add(serialized)
		}
	}
}
