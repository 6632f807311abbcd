package transactionvalidator

import (
	"fmt"
	"math"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
)

// lockTimeThreshold is the millisecond-scale boundary below which a
// transaction's LockTime is interpreted as a blue score and above which it's
// interpreted as a timestamp, mirroring the classic 500,000,000-second
// boundary scaled to this DAG's millisecond clock
const lockTimeThreshold = 500000000000

// ValidateTransactionInContextAndPopulateFee validates a transaction against
// the rules that need a populated UTXO view: every spent outpoint must
// resolve to an entry, a spent coinbase output must have matured, the
// transaction must be finalized relative to povBlockHash, and the sum of its
// inputs must cover the sum of its outputs. The difference is written back
// into tx.Fee. Script execution is out of scope: no script-execution engine
// exists to run against ScriptPublicKey/SignatureScript, so this only
// enforces the arithmetic and maturity rules.
func (v *transactionValidator) ValidateTransactionInContextAndPopulateFee(stagingArea *model.StagingArea,
	tx *externalapi.DomainTransaction, povBlockHash *externalapi.DomainHash, selectedParentMedianTime int64) error {

	if tx.IsCoinbase() {
		return nil
	}

	povGHOSTDAGData, err := v.ghostdagDataStore.Get(v.databaseContext, stagingArea, povBlockHash)
	if err != nil {
		return err
	}

	err = v.checkTransactionIsFinalized(tx, povGHOSTDAGData.BlueScore(), selectedParentMedianTime)
	if err != nil {
		return err
	}

	totalIn, err := v.checkInputsAndCalculateTotal(tx, povGHOSTDAGData.BlueScore())
	if err != nil {
		return err
	}

	var totalOut uint64
	for _, output := range tx.Outputs {
		totalOut += output.Value
	}

	if totalIn < totalOut {
		return ruleerrors.NewTxRuleError(ruleerrors.ErrUnbalancedTransaction, consensushashing.TransactionID(tx).String(),
			fmt.Sprintf("total value of all transaction inputs %d is less than total value of all outputs %d",
				totalIn, totalOut))
	}

	tx.Fee = totalIn - totalOut

	return nil
}

func (v *transactionValidator) checkInputsAndCalculateTotal(tx *externalapi.DomainTransaction, povBlueScore uint64) (uint64, error) {
	var totalIn uint64
	for i, input := range tx.Inputs {
		entry := input.UTXOEntry
		if entry == nil {
			return 0, ruleerrors.NewMissingDataError(fmt.Sprintf(
				"missing UTXO entry for input %d (outpoint %s:%d) of transaction %s",
				i, input.PreviousOutpoint.TransactionID, input.PreviousOutpoint.Index, consensushashing.TransactionID(tx)))
		}

		if entry.IsCoinbase {
			spendHeight := entry.BlockBlueScore + v.coinbaseMaturity
			if povBlueScore < spendHeight {
				return 0, ruleerrors.NewTxRuleError(ruleerrors.ErrImmatureCoinbaseSpend, consensushashing.TransactionID(tx).String(),
					fmt.Sprintf("tried to spend coinbase output %s:%d created at blue score %d before "+
						"required maturity of %d blue score blocks (needed blue score %d, spending block is at %d)",
						input.PreviousOutpoint.TransactionID, input.PreviousOutpoint.Index, entry.BlockBlueScore,
						v.coinbaseMaturity, spendHeight, povBlueScore))
			}
		}

		newTotal := totalIn + entry.Amount
		if newTotal < totalIn {
			return 0, ruleerrors.NewTxRuleError(ruleerrors.ErrBadTxOutValue, consensushashing.TransactionID(tx).String(),
				"total value of all transaction inputs overflows a uint64")
		}
		totalIn = newTotal
	}
	return totalIn, nil
}

func (v *transactionValidator) checkTransactionIsFinalized(tx *externalapi.DomainTransaction, povBlueScore uint64, selectedParentMedianTime int64) error {
	if tx.LockTime == 0 {
		return nil
	}

	var lockTimeCutoff int64
	if tx.LockTime < lockTimeThreshold {
		lockTimeCutoff = int64(povBlueScore)
	} else {
		lockTimeCutoff = selectedParentMedianTime
	}

	if int64(tx.LockTime) < lockTimeCutoff {
		return nil
	}

	for _, input := range tx.Inputs {
		if input.Sequence != math.MaxUint64 {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrNotFinalized, consensushashing.TransactionID(tx).String(),
				fmt.Sprintf("transaction is not finalized: lock time %d has not been reached", tx.LockTime))
		}
	}
	return nil
}
