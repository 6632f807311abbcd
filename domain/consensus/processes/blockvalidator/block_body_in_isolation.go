package blockvalidator

import (
	"fmt"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspad/domain/consensus/utils/mass"
	"github.com/kaspanet/kaspad/domain/consensus/utils/merkle"
)

const coinbaseTransactionIndex = 0

// ValidateBodyInIsolation validates a block's transactions against the rules
// that don't depend on the rest of the DAG or a populated UTXO view: exactly
// one coinbase at index 0, well-formed inputs/outputs, no duplicate or
// conflicting transactions within the block, a merkle root that matches the
// transaction set, and a total mass within the block's mass budget
func (v *blockValidator) ValidateBodyInIsolation(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	block, err := v.blockStore.Block(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkTransactionsNotEmpty(block)
	if err != nil {
		return err
	}

	err = v.checkFirstTransactionIsCoinbase(block)
	if err != nil {
		return err
	}

	err = v.checkOnlyOneCoinbase(block)
	if err != nil {
		return err
	}

	err = v.checkTransactionsInIsolation(block)
	if err != nil {
		return err
	}

	err = v.checkDuplicateTransactions(block)
	if err != nil {
		return err
	}

	err = v.checkDoubleSpendsWithinBlock(block)
	if err != nil {
		return err
	}

	err = v.checkNoChainedTransactions(block)
	if err != nil {
		return err
	}

	err = v.checkMerkleRoot(block)
	if err != nil {
		return err
	}

	err = v.checkBlockMass(block)
	if err != nil {
		return err
	}

	return nil
}

func (v *blockValidator) checkTransactionsNotEmpty(block *externalapi.DomainBlock) error {
	if len(block.Transactions) == 0 {
		return ruleerrors.NewRuleError(ruleerrors.ErrNoTransactions, "block does not contain any transactions")
	}
	return nil
}

func (v *blockValidator) checkFirstTransactionIsCoinbase(block *externalapi.DomainBlock) error {
	if !block.Transactions[coinbaseTransactionIndex].IsCoinbase() {
		return ruleerrors.NewRuleError(ruleerrors.ErrFirstTxNotCoinbase, "first transaction in block is not a coinbase")
	}
	return nil
}

func (v *blockValidator) checkOnlyOneCoinbase(block *externalapi.DomainBlock) error {
	for i, tx := range block.Transactions[coinbaseTransactionIndex+1:] {
		if tx.IsCoinbase() {
			return ruleerrors.NewRuleError(ruleerrors.ErrMultipleCoinbases,
				fmt.Sprintf("block contains second coinbase at index %d", i+coinbaseTransactionIndex+1))
		}
	}
	return nil
}

// checkTransactionsInIsolation applies the per-transaction rules that don't
// need a UTXO view: a non-coinbase transaction must spend at least one
// input, every transaction must produce at least one output, every output
// value must stay under the maximum allowed, and a non-empty payload is only
// legal once the payload-activation fork is active
func (v *blockValidator) checkTransactionsInIsolation(block *externalapi.DomainBlock) error {
	for _, tx := range block.Transactions {
		if !tx.IsCoinbase() && len(tx.Inputs) == 0 {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrTxInContextFailed, consensushashing.TransactionID(tx).String(),
				"transaction has no inputs")
		}
		if len(tx.Outputs) == 0 {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrTxInContextFailed, consensushashing.TransactionID(tx).String(),
				"transaction has no outputs")
		}
		for _, output := range tx.Outputs {
			if output.Value > v.maxTransactionValue {
				return ruleerrors.NewTxRuleError(ruleerrors.ErrTxInContextFailed, consensushashing.TransactionID(tx).String(),
					fmt.Sprintf("output value of %d exceeds the maximum allowed value of %d", output.Value, v.maxTransactionValue))
			}
		}
		if !tx.IsCoinbase() && !v.payloadActivationActive && len(tx.Payload) > 0 {
			return ruleerrors.NewTxRuleError(ruleerrors.ErrInvalidPayload, consensushashing.TransactionID(tx).String(),
				"non-coinbase transactions may not carry a payload before the payload activation fork")
		}
	}
	return nil
}

func (v *blockValidator) checkDuplicateTransactions(block *externalapi.DomainBlock) error {
	seen := make(map[externalapi.DomainTransactionID]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		id := consensushashing.TransactionID(tx)
		if _, exists := seen[*id]; exists {
			return ruleerrors.NewRuleError(ruleerrors.ErrDuplicateTx,
				fmt.Sprintf("block contains duplicate transaction %s", id))
		}
		seen[*id] = struct{}{}
	}
	return nil
}

func (v *blockValidator) checkDoubleSpendsWithinBlock(block *externalapi.DomainBlock) error {
	spentOutpoints := make(map[externalapi.DomainOutpoint]*externalapi.DomainTransactionID)
	for _, tx := range block.Transactions {
		txID := consensushashing.TransactionID(tx)
		for _, input := range tx.Inputs {
			if spendingTxID, exists := spentOutpoints[input.PreviousOutpoint]; exists {
				return ruleerrors.NewRuleError(ruleerrors.ErrDoubleSpendInSameBlock,
					fmt.Sprintf("transaction %s spends outpoint %s:%d already spent by transaction %s in this block",
						txID, input.PreviousOutpoint.TransactionID, input.PreviousOutpoint.Index, spendingTxID))
			}
			spentOutpoints[input.PreviousOutpoint] = txID
		}
	}
	return nil
}

// checkNoChainedTransactions rejects a block where one transaction spends an
// output of another transaction in the same block; such a transaction can
// only be validated against a UTXO view that already includes its same-block
// parent, which the single-writer virtual update doesn't provide mid-block
func (v *blockValidator) checkNoChainedTransactions(block *externalapi.DomainBlock) error {
	idsInBlock := make(map[externalapi.DomainTransactionID]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		idsInBlock[*consensushashing.TransactionID(tx)] = struct{}{}
	}

	for _, tx := range block.Transactions {
		for i, input := range tx.Inputs {
			if _, ok := idsInBlock[input.PreviousOutpoint.TransactionID]; ok {
				txID := consensushashing.TransactionID(tx)
				return ruleerrors.NewRuleError(ruleerrors.ErrChainedTransactions,
					fmt.Sprintf("input %d of transaction %s spends an output of transaction %s in the same block",
						i, txID, input.PreviousOutpoint.TransactionID))
			}
		}
	}
	return nil
}

func (v *blockValidator) checkMerkleRoot(block *externalapi.DomainBlock) error {
	calculatedMerkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions, v.massInMerkleRootActive)
	if block.Header.HashMerkleRoot != *calculatedMerkleRoot {
		return ruleerrors.NewRuleError(ruleerrors.ErrBadMerkleRoot,
			fmt.Sprintf("block hash merkle root is invalid - header has %s, calculated %s",
				block.Header.HashMerkleRoot, calculatedMerkleRoot))
	}
	return nil
}

func (v *blockValidator) checkBlockMass(block *externalapi.DomainBlock) error {
	var totalMass uint64
	for _, tx := range block.Transactions {
		totalMass += mass.Compute(tx, v.massParams)
	}
	if totalMass > v.maxBlockMass {
		return ruleerrors.NewRuleError(ruleerrors.ErrBlockMassTooHigh,
			fmt.Sprintf("block mass of %d exceeds the maximum allowed mass of %d", totalMass, v.maxBlockMass))
	}
	return nil
}
