// Package coinbasemanager builds and validates the coinbase transaction that
// rewards every blue block in a chain block's merge set.
package coinbasemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

const scriptPublicKeyMaxLength = 150
const coinbaseTransactionVersion = 0
const baseSubsidy = 5_000_000_000

type coinbaseManager struct {
	subsidyReductionInterval uint64

	databaseContext   model.DBReader
	ghostdagDataStore model.GHOSTDAGDataStore
}

// ExpectedCoinbaseTransaction builds the coinbase transaction a block with the given
// hash must carry, paying every blue block in its merge set that accepted at least one
// fee-paying transaction or has a nonzero subsidy
func (c *coinbaseManager) ExpectedCoinbaseTransaction(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	acceptanceData externalapi.AcceptanceData) (*externalapi.DomainTransaction, error) {

	ghostdagData, err := c.ghostdagDataStore.Get(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	txOuts := make([]*externalapi.DomainTransactionOutput, 0, len(ghostdagData.MergeSetBlues()))
	for i, blue := range ghostdagData.MergeSetBlues() {
		txOut, hasReward, err := c.coinbaseOutputForBlueBlock(blue, acceptanceData[i])
		if err != nil {
			return nil, err
		}

		if hasReward {
			txOuts = append(txOuts, txOut)
		}
	}

	return &externalapi.DomainTransaction{
		Version:      coinbaseTransactionVersion,
		Inputs:       []*externalapi.DomainTransactionInput{},
		Outputs:      txOuts,
		LockTime:     0,
		SubnetworkID: externalapi.SubnetworkIDCoinbase,
		Gas:          0,
		Payload:      []byte{},
	}, nil
}

// coinbaseOutputForBlueBlock calculates the output that should go into the coinbase transaction of blueBlock.
// If blueBlock earned no reward, it returns hasReward=false.
func (c *coinbaseManager) coinbaseOutputForBlueBlock(blueBlock *externalapi.DomainHash,
	blockAcceptanceData *externalapi.BlockAcceptanceData) (*externalapi.DomainTransactionOutput, bool, error) {

	totalFees := uint64(0)
	for _, txAcceptanceData := range blockAcceptanceData.TransactionAcceptanceData {
		if txAcceptanceData.IsAccepted {
			totalFees += txAcceptanceData.Fee
		}
	}

	subsidy, err := c.calcBlockSubsidy(blueBlock)
	if err != nil {
		return nil, false, err
	}

	totalReward := subsidy + totalFees
	if totalReward == 0 {
		return nil, false, nil
	}

	if len(blockAcceptanceData.TransactionAcceptanceData) == 0 {
		return nil, false, errors.Errorf("blue block %s has no transactions, but has a nonzero reward", blueBlock)
	}
	coinbaseTx := blockAcceptanceData.TransactionAcceptanceData[0].Transaction
	if len(coinbaseTx.Outputs) == 0 {
		return nil, false, errors.Errorf("blue block %s's coinbase transaction has no outputs", blueBlock)
	}

	scriptPublicKey := coinbaseTx.Outputs[0].ScriptPublicKey
	if err := c.checkScriptPublicKey(scriptPublicKey); err != nil {
		return nil, false, err
	}

	return &externalapi.DomainTransactionOutput{
		Value:           totalReward,
		ScriptPublicKey: scriptPublicKey,
	}, true, nil
}

func (c *coinbaseManager) checkScriptPublicKey(scriptPublicKey []byte) error {
	if len(scriptPublicKey) > scriptPublicKeyMaxLength {
		return errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen, "coinbase's payload script public key is "+
			"longer than the max allowed length of %d", scriptPublicKeyMaxLength)
	}
	return nil
}

// calcBlockSubsidy returns the subsidy amount a block at blockHash's blue score should
// have. The subsidy halves every subsidyReductionInterval blocks, approximately every
// 4 years at the target block rate.
func (c *coinbaseManager) calcBlockSubsidy(blockHash *externalapi.DomainHash) (uint64, error) {
	if c.subsidyReductionInterval == 0 {
		return baseSubsidy, nil
	}

	ghostdagData, err := c.ghostdagDataStore.Get(c.databaseContext, model.NewStagingArea(), blockHash)
	if err != nil {
		return 0, err
	}

	return baseSubsidy >> uint(ghostdagData.BlueScore()/c.subsidyReductionInterval), nil
}

// CalcBlockSubsidy returns the subsidy amount a block at the given DAA score should have
func (c *coinbaseManager) CalcBlockSubsidy(blockDAAScore uint64) uint64 {
	if c.subsidyReductionInterval == 0 {
		return baseSubsidy
	}
	return baseSubsidy >> uint(blockDAAScore/c.subsidyReductionInterval)
}

// New instantiates a new CoinbaseManager
func New(
	databaseContext model.DBReader,
	subsidyReductionInterval uint64,
	ghostdagDataStore model.GHOSTDAGDataStore) model.CoinbaseManager {

	return &coinbaseManager{
		databaseContext:          databaseContext,
		subsidyReductionInterval: subsidyReductionInterval,
		ghostdagDataStore:        ghostdagDataStore,
	}
}
