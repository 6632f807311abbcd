// Package acceptancedatastore persists, for each chain block, which
// transactions in its mergeset were accepted and what fee each paid.
package acceptancedatastore

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
)

var bucket = dbkeys.MakeBucket([]byte("acceptance-data"))

// acceptanceDataStore represents a store of AcceptanceData
type acceptanceDataStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new AcceptanceDataStore
func New(cacheSize int) model.AcceptanceDataStore {
	return &acceptanceDataStore{cache: lrucache.New(cacheSize)}
}

type acceptanceDataStagingShard struct {
	store *acceptanceDataStore
	toAdd map[externalapi.DomainHash]externalapi.AcceptanceData
}

func (ads *acceptanceDataStore) stagingShard(stagingArea *model.StagingArea) *acceptanceDataStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDAcceptanceData, func() model.StagingShard {
		return &acceptanceDataStagingShard{
			store: ads,
			toAdd: make(map[externalapi.DomainHash]externalapi.AcceptanceData),
		}
	}).(*acceptanceDataStagingShard)
}

func (adss *acceptanceDataStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, acceptanceData := range adss.toAdd {
		acceptanceDataBytes, err := serializeAcceptanceData(acceptanceData)
		if err != nil {
			return err
		}
		if err := dbTx.Put(adss.store.hashAsKey(&hash), acceptanceDataBytes); err != nil {
			return err
		}
		adss.store.cache.Add(&hash, acceptanceData)
	}
	return nil
}

// Stage stages the given acceptanceData for the given blockHash
func (ads *acceptanceDataStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, acceptanceData externalapi.AcceptanceData) {
	ads.stagingShard(stagingArea).toAdd[*blockHash] = acceptanceData.Clone()
}

func (ads *acceptanceDataStore) IsStaged(stagingArea *model.StagingArea) bool {
	return len(ads.stagingShard(stagingArea).toAdd) != 0
}

// Get gets the acceptanceData associated with the given blockHash
func (ads *acceptanceDataStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (externalapi.AcceptanceData, error) {
	stagingShard := ads.stagingShard(stagingArea)
	if acceptanceData, ok := stagingShard.toAdd[*blockHash]; ok {
		return acceptanceData.Clone(), nil
	}

	if acceptanceData, ok := ads.cache.Get(blockHash); ok {
		return acceptanceData.(externalapi.AcceptanceData).Clone(), nil
	}

	acceptanceDataBytes, err := dbContext.Get(ads.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	acceptanceData, err := deserializeAcceptanceData(acceptanceDataBytes)
	if err != nil {
		return nil, err
	}
	ads.cache.Add(blockHash, acceptanceData)
	return acceptanceData.Clone(), nil
}

func (ads *acceptanceDataStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

type serializableOutpoint struct {
	TransactionID externalapi.DomainHash
	Index         uint32
}

type serializableTxInput struct {
	PreviousOutpoint serializableOutpoint
	SignatureScript  []byte
	Sequence         uint64
	SigOpCount       byte
}

type serializableTxOutput struct {
	Value           uint64
	ScriptPublicKey []byte
}

type serializableTransaction struct {
	Version      uint16
	Inputs       []serializableTxInput
	Outputs      []serializableTxOutput
	LockTime     uint64
	SubnetworkID externalapi.DomainSubnetworkID
	Gas          uint64
	PayloadHash  externalapi.DomainHash
	Payload      []byte
}

type serializableUTXOEntry struct {
	Amount          uint64
	ScriptPublicKey []byte
	BlockBlueScore  uint64
	IsCoinbase      bool
}

type serializableTransactionAcceptanceData struct {
	Transaction                 serializableTransaction
	Fee                         uint64
	IsAccepted                  bool
	TransactionInputUTXOEntries []serializableUTXOEntry
}

type serializableBlockAcceptanceData struct {
	BlockHash                 externalapi.DomainHash
	TransactionAcceptanceData []serializableTransactionAcceptanceData
}

func txToSerializable(tx *externalapi.DomainTransaction) serializableTransaction {
	st := serializableTransaction{
		Version:      tx.Version,
		LockTime:     tx.LockTime,
		SubnetworkID: tx.SubnetworkID,
		Gas:          tx.Gas,
		PayloadHash:  tx.PayloadHash,
		Payload:      tx.Payload,
	}
	for _, input := range tx.Inputs {
		st.Inputs = append(st.Inputs, serializableTxInput{
			PreviousOutpoint: serializableOutpoint{
				TransactionID: input.PreviousOutpoint.TransactionID,
				Index:         input.PreviousOutpoint.Index,
			},
			SignatureScript: input.SignatureScript,
			Sequence:        input.Sequence,
			SigOpCount:      input.SigOpCount,
		})
	}
	for _, output := range tx.Outputs {
		st.Outputs = append(st.Outputs, serializableTxOutput{
			Value:           output.Value,
			ScriptPublicKey: output.ScriptPublicKey,
		})
	}
	return st
}

func serializableToTx(st serializableTransaction) *externalapi.DomainTransaction {
	tx := &externalapi.DomainTransaction{
		Version:      st.Version,
		LockTime:     st.LockTime,
		SubnetworkID: st.SubnetworkID,
		Gas:          st.Gas,
		PayloadHash:  st.PayloadHash,
		Payload:      st.Payload,
	}
	for _, input := range st.Inputs {
		tx.Inputs = append(tx.Inputs, &externalapi.DomainTransactionInput{
			PreviousOutpoint: externalapi.DomainOutpoint{
				TransactionID: input.PreviousOutpoint.TransactionID,
				Index:         input.PreviousOutpoint.Index,
			},
			SignatureScript: input.SignatureScript,
			Sequence:        input.Sequence,
			SigOpCount:      input.SigOpCount,
		})
	}
	for _, output := range st.Outputs {
		tx.Outputs = append(tx.Outputs, &externalapi.DomainTransactionOutput{
			Value:           output.Value,
			ScriptPublicKey: output.ScriptPublicKey,
		})
	}
	return tx
}

func serializeAcceptanceData(acceptanceData externalapi.AcceptanceData) ([]byte, error) {
	s := make([]serializableBlockAcceptanceData, len(acceptanceData))
	for i, blockAcceptanceData := range acceptanceData {
		sbad := serializableBlockAcceptanceData{BlockHash: *blockAcceptanceData.BlockHash}
		for _, tad := range blockAcceptanceData.TransactionAcceptanceData {
			stad := serializableTransactionAcceptanceData{
				Transaction: txToSerializable(tad.Transaction),
				Fee:         tad.Fee,
				IsAccepted:  tad.IsAccepted,
			}
			for _, entry := range tad.TransactionInputUTXOEntries {
				if entry == nil {
					stad.TransactionInputUTXOEntries = append(stad.TransactionInputUTXOEntries, serializableUTXOEntry{})
					continue
				}
				stad.TransactionInputUTXOEntries = append(stad.TransactionInputUTXOEntries, serializableUTXOEntry{
					Amount:          entry.Amount,
					ScriptPublicKey: entry.ScriptPublicKey,
					BlockBlueScore:  entry.BlockBlueScore,
					IsCoinbase:      entry.IsCoinbase,
				})
			}
			sbad.TransactionAcceptanceData = append(sbad.TransactionAcceptanceData, stad)
		}
		s[i] = sbad
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeAcceptanceData(acceptanceDataBytes []byte) (externalapi.AcceptanceData, error) {
	var s []serializableBlockAcceptanceData
	if err := gob.NewDecoder(bytes.NewReader(acceptanceDataBytes)).Decode(&s); err != nil {
		return nil, err
	}

	acceptanceData := make(externalapi.AcceptanceData, len(s))
	for i, sbad := range s {
		blockHash := sbad.BlockHash
		bad := &externalapi.BlockAcceptanceData{BlockHash: &blockHash}
		for _, stad := range sbad.TransactionAcceptanceData {
			tad := &externalapi.TransactionAcceptanceData{
				Transaction: serializableToTx(stad.Transaction),
				Fee:         stad.Fee,
				IsAccepted:  stad.IsAccepted,
			}
			for _, sEntry := range stad.TransactionInputUTXOEntries {
				tad.TransactionInputUTXOEntries = append(tad.TransactionInputUTXOEntries, &externalapi.UTXOEntry{
					Amount:          sEntry.Amount,
					ScriptPublicKey: sEntry.ScriptPublicKey,
					BlockBlueScore:  sEntry.BlockBlueScore,
					IsCoinbase:      sEntry.IsCoinbase,
				})
			}
			bad.TransactionAcceptanceData = append(bad.TransactionAcceptanceData, tad)
		}
		acceptanceData[i] = bad
	}
	return acceptanceData, nil
}
