package blockvalidator

import (
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspad/domain/consensus/utils/merkle"
)

func coinbaseTx() *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version:      0,
		Inputs:       nil,
		Outputs:      []*externalapi.DomainTransactionOutput{{Value: 5000, ScriptPublicKey: []byte{1}}},
		SubnetworkID: externalapi.SubnetworkIDCoinbase,
	}
}

func nativeTx(outpointByte byte, value uint64) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs: []*externalapi.DomainTransactionInput{
			{PreviousOutpoint: externalapi.DomainOutpoint{TransactionID: *hashFromByte(outpointByte), Index: 0}},
		},
		Outputs:      []*externalapi.DomainTransactionOutput{{Value: value, ScriptPublicKey: []byte{2}}},
		SubnetworkID: externalapi.SubnetworkIDNative,
	}
}

func blockWithTransactions(txs []*externalapi.DomainTransaction, massInMerkleRootActive bool) *externalapi.DomainBlock {
	merkleRoot := merkle.CalculateHashMerkleRoot(txs, massInMerkleRootActive)
	return &externalapi.DomainBlock{
		Header:       &externalapi.DomainBlockHeader{HashMerkleRoot: *merkleRoot},
		Transactions: txs,
	}
}

func (h *testHarness) stageBlock(blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) {
	h.blockStore.blocks[*blockHash] = block
}

func TestValidateBodyInIsolationRejectsEmptyBlock(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	h.stageBlock(blockHash, blockWithTransactions(nil, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrNoTransactions)
}

func TestValidateBodyInIsolationRejectsFirstTxNotCoinbase(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{nativeTx(9, 100)}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrFirstTxNotCoinbase)
}

func TestValidateBodyInIsolationRejectsSecondCoinbase(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), coinbaseTx()}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrMultipleCoinbases)
}

func TestValidateBodyInIsolationRejectsOutputValueAboveMax(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	tx := nativeTx(9, 100)
	tx.Outputs[0].Value = h.validator.maxTransactionValue + 1
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), tx}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrTxInContextFailed)
}

func TestValidateBodyInIsolationRejectsPayloadBeforeActivation(t *testing.T) {
	h := newTestHarness()
	h.validator.payloadActivationActive = false
	blockHash := hashFromByte(1)
	tx := nativeTx(9, 100)
	tx.Payload = []byte{1, 2, 3}
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), tx}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrInvalidPayload)
}

func TestValidateBodyInIsolationRejectsDuplicateTransactions(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	tx := nativeTx(9, 100)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), tx, tx}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrDuplicateTx)
}

func TestValidateBodyInIsolationRejectsDoubleSpendWithinBlock(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	txA := nativeTx(9, 100)
	txB := nativeTx(9, 200)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), txA, txB}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrDoubleSpendInSameBlock)
}

func TestValidateBodyInIsolationRejectsChainedTransactions(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	parentTx := nativeTx(9, 100)
	parentTxID := *consensushashing.TransactionID(parentTx)
	childTx := nativeTx(9, 50)
	// simulate parentTx's output being spent by childTx in the same block
	childTx.Inputs[0].PreviousOutpoint.TransactionID = parentTxID
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), parentTx, childTx}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrChainedTransactions)
}

func TestValidateBodyInIsolationRejectsBadMerkleRoot(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	block := blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), nativeTx(9, 100)}, true)
	block.Header.HashMerkleRoot = *hashFromByte(123)
	h.stageBlock(blockHash, block)

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrBadMerkleRoot)
}

func TestValidateBodyInIsolationRejectsMassTooHigh(t *testing.T) {
	h := newTestHarness()
	h.validator.maxBlockMass = 1
	blockHash := hashFromByte(1)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), nativeTx(9, 100)}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrBlockMassTooHigh)
}

func TestValidateBodyInIsolationAcceptsValidBlock(t *testing.T) {
	h := newTestHarness()
	blockHash := hashFromByte(1)
	h.stageBlock(blockHash, blockWithTransactions([]*externalapi.DomainTransaction{coinbaseTx(), nativeTx(9, 100)}, true))

	err := h.validator.ValidateBodyInIsolation(model.NewStagingArea(), blockHash)
	if err != nil {
		t.Fatalf("ValidateBodyInIsolation: %+v", err)
	}
}

func TestValidateBodyInContextRejectsBlockWithUnvalidatedParent(t *testing.T) {
	h := newTestHarness()
	parentHash := hashFromByte(1)
	h.stageHeader(parentHash, validHeader(h.genesisHash))
	h.blockStatusStore.statuses[*parentHash] = externalapi.StatusHeaderOnly

	blockHash := hashFromByte(2)
	h.stageHeader(blockHash, validHeader(parentHash))

	err := h.validator.ValidateBodyInContext(model.NewStagingArea(), blockHash)
	expectRuleError(t, err, ruleerrors.ErrMissingParents)
}

func TestValidateBodyInContextAcceptsBlockWithValidatedParent(t *testing.T) {
	h := newTestHarness()
	parentHash := hashFromByte(1)
	h.stageHeader(parentHash, validHeader(h.genesisHash))
	h.blockStatusStore.statuses[*parentHash] = externalapi.StatusUTXOValid

	blockHash := hashFromByte(2)
	h.stageHeader(blockHash, validHeader(parentHash))

	err := h.validator.ValidateBodyInContext(model.NewStagingArea(), blockHash)
	if err != nil {
		t.Fatalf("ValidateBodyInContext: %+v", err)
	}
}
