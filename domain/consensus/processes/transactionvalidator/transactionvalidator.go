// Package transactionvalidator validates individual transactions, both
// free-standing (input/output counts, amount ranges, duplicate inputs) and
// against a populated UTXO view (coinbase maturity, finality, fee balance)
package transactionvalidator

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
)

// transactionValidator validates transactions independently of the block
// that contains them
type transactionValidator struct {
	databaseContext   model.DBReader
	ghostdagDataStore model.GHOSTDAGDataStore

	maxTransactionValue uint64
	coinbaseMaturity    uint64
}

// New instantiates a new TransactionValidator. maxTransactionValue bounds any
// single input or output amount; coinbaseMaturity is the number of blue
// score steps a coinbase output must wait before it becomes spendable.
func New(
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	maxTransactionValue uint64,
	coinbaseMaturity uint64) model.TransactionValidator {

	return &transactionValidator{
		databaseContext:     databaseContext,
		ghostdagDataStore:   ghostdagDataStore,
		maxTransactionValue: maxTransactionValue,
		coinbaseMaturity:    coinbaseMaturity,
	}
}
