package externalapi

// TransactionAcceptanceData stores whether a specific transaction was accepted
// by some block, and its fee if so
type TransactionAcceptanceData struct {
	Transaction                 *DomainTransaction
	Fee                         uint64
	IsAccepted                  bool
	TransactionInputUTXOEntries []*UTXOEntry
}

// BlockAcceptanceData stores all transaction acceptance data for a block,
// i.e. a single chain block's contribution to a virtual-state update
type BlockAcceptanceData struct {
	BlockHash                 *DomainHash
	TransactionAcceptanceData []*TransactionAcceptanceData
}

// AcceptanceData is the acceptance data for a merge-set: one BlockAcceptanceData
// per mergeset block, ordered by the chain order used to resolve double-spends
// (closer-to-selected-parent wins)
type AcceptanceData []*BlockAcceptanceData

// Clone returns a deep copy of this TransactionAcceptanceData
func (tad *TransactionAcceptanceData) Clone() *TransactionAcceptanceData {
	if tad == nil {
		return nil
	}
	utxoEntries := make([]*UTXOEntry, len(tad.TransactionInputUTXOEntries))
	for i, entry := range tad.TransactionInputUTXOEntries {
		utxoEntries[i] = entry.Clone()
	}
	return &TransactionAcceptanceData{
		Transaction:                 tad.Transaction.Clone(),
		Fee:                         tad.Fee,
		IsAccepted:                  tad.IsAccepted,
		TransactionInputUTXOEntries: utxoEntries,
	}
}

// Clone returns a deep copy of this BlockAcceptanceData
func (bad *BlockAcceptanceData) Clone() *BlockAcceptanceData {
	if bad == nil {
		return nil
	}
	txAcceptanceData := make([]*TransactionAcceptanceData, len(bad.TransactionAcceptanceData))
	for i, tad := range bad.TransactionAcceptanceData {
		txAcceptanceData[i] = tad.Clone()
	}
	return &BlockAcceptanceData{
		BlockHash:                 bad.BlockHash.Clone(),
		TransactionAcceptanceData: txAcceptanceData,
	}
}

// Clone returns a deep copy of this AcceptanceData
func (ad AcceptanceData) Clone() AcceptanceData {
	if ad == nil {
		return nil
	}
	clone := make(AcceptanceData, len(ad))
	for i, bad := range ad {
		clone[i] = bad.Clone()
	}
	return clone
}
