package transactionvalidator

import (
	"fmt"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
)

// ValidateTransactionInIsolation validates a transaction against the rules
// that don't need a UTXO view or a DAG position: a non-coinbase transaction
// must spend at least one input, no input may be spent twice by the same
// transaction, and every output (and their sum) must stay under the maximum
// allowed value
func (v *transactionValidator) ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	err := v.checkTransactionInputCount(tx)
	if err != nil {
		return err
	}

	err = v.checkDuplicateTransactionInputs(tx)
	if err != nil {
		return err
	}

	err = v.checkTransactionAmountRanges(tx)
	if err != nil {
		return err
	}

	return nil
}

func (v *transactionValidator) checkTransactionInputCount(tx *externalapi.DomainTransaction) error {
	if !tx.IsCoinbase() && len(tx.Inputs) == 0 {
		return ruleerrors.NewTxRuleError(ruleerrors.ErrNoTxInputs, consensushashing.TransactionID(tx).String(),
			"transaction has no inputs")
	}
	return nil
}

func (v *transactionValidator) checkDuplicateTransactionInputs(tx *externalapi.DomainTransaction) error {
	spent := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if _, exists := spent[input.PreviousOutpoint]; exists {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrDuplicateTxInputs, consensushashing.TransactionID(tx).String(),
				"transaction spends the same outpoint more than once")
		}
		spent[input.PreviousOutpoint] = struct{}{}
	}
	return nil
}

// checkTransactionAmountRanges checks that every output value, and their
// running sum, stays within the maximum allowed transaction value. The sum is
// checked with an overflow guard even though it can't realistically overflow
// a uint64 at the current maximum, since the check is cheap and future
// subsidy schedules shouldn't have to revisit it.
func (v *transactionValidator) checkTransactionAmountRanges(tx *externalapi.DomainTransaction) error {
	var totalSompi uint64
	for _, output := range tx.Outputs {
		if output.Value > v.maxTransactionValue {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrBadTxOutValue, consensushashing.TransactionID(tx).String(),
				fmt.Sprintf("transaction output value of %d is higher than max allowed value of %d",
					output.Value, v.maxTransactionValue))
		}

		newTotal := totalSompi + output.Value
		if newTotal < totalSompi || newTotal > v.maxTransactionValue {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrBadTxOutValue, consensushashing.TransactionID(tx).String(),
				fmt.Sprintf("total value of all transaction outputs exceeds max allowed value of %d",
					v.maxTransactionValue))
		}
		totalSompi = newTotal
	}

	return nil
}
