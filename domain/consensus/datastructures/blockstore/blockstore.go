// Package blockstore persists full block bodies. Pruned blocks retain only
// their header elsewhere (blockheaderstore); Block returns a not-found error
// once a block's body has been pruned from this store.
package blockstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
)

var bucket = dbkeys.MakeBucket([]byte("blocks"))
var countKey = dbkeys.MakeBucket().Key([]byte("blocks-count"))

type blockStore struct {
	cache *lrucache.LRUCache
	count uint64
}

// New instantiates a new BlockStore
func New() model.BlockStore {
	return &blockStore{cache: lrucache.New(0)}
}

type blockStagingShard struct {
	store    *blockStore
	toAdd    map[externalapi.DomainHash]*externalapi.DomainBlock
	toDelete map[externalapi.DomainHash]struct{}
}

func (bs *blockStore) stagingShard(stagingArea *model.StagingArea) *blockStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockStore, func() model.StagingShard {
		return &blockStagingShard{
			store:    bs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.DomainBlock),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockStagingShard)
}

func (bss *blockStagingShard) Commit(dbTx model.DBTransaction) error {
	delta := int64(0)
	for hash, block := range bss.toAdd {
		blockBytes, err := serializeBlock(block)
		if err != nil {
			return err
		}
		existed, err := dbTx.Has(bss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		if err := dbTx.Put(bss.store.hashAsKey(&hash), blockBytes); err != nil {
			return err
		}
		bss.store.cache.Add(&hash, block)
		if !existed {
			delta++
		}
	}
	for hash := range bss.toDelete {
		if err := dbTx.Delete(bss.store.hashAsKey(&hash)); err != nil {
			return err
		}
		bss.store.cache.Remove(&hash)
		delta--
	}

	newCount := uint64(int64(bss.store.count) + delta)
	countBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(countBytes, newCount)
	if err := dbTx.Put(countKey, countBytes); err != nil {
		return err
	}
	bss.store.count = newCount

	return nil
}

// Stage stages the given block for the given blockHash
func (bs *blockStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) {
	stagingShard := bs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = block.Clone()
}

func (bs *blockStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := bs.stagingShard(stagingArea)
	return len(stagingShard.toAdd) != 0 || len(stagingShard.toDelete) != 0
}

// Block gets the block associated with the given blockHash
func (bs *blockStore) Block(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	stagingShard := bs.stagingShard(stagingArea)
	if block, ok := stagingShard.toAdd[*blockHash]; ok {
		return block.Clone(), nil
	}
	if block, ok := bs.cache.Get(blockHash); ok {
		return block.(*externalapi.DomainBlock).Clone(), nil
	}

	blockBytes, err := dbContext.Get(bs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	block, err := deserializeBlock(blockBytes)
	if err != nil {
		return nil, err
	}
	bs.cache.Add(blockHash, block)
	return block.Clone(), nil
}

// HasBlock returns whether a block body is present for the given blockHash
func (bs *blockStore) HasBlock(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	stagingShard := bs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}
	if bs.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(bs.hashAsKey(blockHash))
}

// Delete deletes the block body associated with the given blockHash
func (bs *blockStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		delete(stagingShard.toAdd, *blockHash)
		return
	}
	stagingShard.toDelete[*blockHash] = struct{}{}
}

// Count returns the number of block bodies currently stored, net of pending staging
func (bs *blockStore) Count(stagingArea *model.StagingArea) uint64 {
	stagingShard := bs.stagingShard(stagingArea)
	return bs.count + uint64(len(stagingShard.toAdd)) - uint64(len(stagingShard.toDelete))
}

func (bs *blockStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
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

type serializableBlock struct {
	Header       serializableBlockHeader
	Transactions []serializableTransaction
}

type serializableBlockHeader struct {
	Version              uint16
	ParentsByLevel       [][]externalapi.DomainHash
	HashMerkleRoot       externalapi.DomainHash
	AcceptedIDMerkleRoot externalapi.DomainHash
	UTXOCommitment       externalapi.DomainHash
	TimeInMilliseconds   int64
	Bits                 uint32
	Nonce                uint64
	DAAScore             uint64
	BlueWorkBytes        []byte
	BlueScore            uint64
	PruningPoint         externalapi.DomainHash
}

func headerToSerializable(header *externalapi.DomainBlockHeader) serializableBlockHeader {
	s := serializableBlockHeader{
		Version:              header.Version,
		HashMerkleRoot:       header.HashMerkleRoot,
		AcceptedIDMerkleRoot: header.AcceptedIDMerkleRoot,
		UTXOCommitment:       header.UTXOCommitment,
		TimeInMilliseconds:   header.TimeInMilliseconds,
		Bits:                 header.Bits,
		Nonce:                header.Nonce,
		DAAScore:             header.DAAScore,
		BlueScore:            header.BlueScore,
		PruningPoint:         header.PruningPoint,
	}
	if header.BlueWork != nil {
		s.BlueWorkBytes = header.BlueWork.Bytes()
	}
	for _, level := range header.ParentsByLevel {
		hashes := make([]externalapi.DomainHash, len(level))
		for i, h := range level {
			hashes[i] = *h
		}
		s.ParentsByLevel = append(s.ParentsByLevel, hashes)
	}
	return s
}

func serializableToHeader(s serializableBlockHeader) *externalapi.DomainBlockHeader {
	header := &externalapi.DomainBlockHeader{
		Version:              s.Version,
		HashMerkleRoot:       s.HashMerkleRoot,
		AcceptedIDMerkleRoot: s.AcceptedIDMerkleRoot,
		UTXOCommitment:       s.UTXOCommitment,
		TimeInMilliseconds:   s.TimeInMilliseconds,
		Bits:                 s.Bits,
		Nonce:                s.Nonce,
		DAAScore:             s.DAAScore,
		BlueWork:             new(big.Int).SetBytes(s.BlueWorkBytes),
		BlueScore:            s.BlueScore,
		PruningPoint:         s.PruningPoint,
	}
	for _, level := range s.ParentsByLevel {
		hashes := make([]*externalapi.DomainHash, len(level))
		for i := range level {
			h := level[i]
			hashes[i] = &h
		}
		header.ParentsByLevel = append(header.ParentsByLevel, hashes)
	}
	return header
}

func serializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	s := serializableBlock{Header: headerToSerializable(block.Header)}
	for _, tx := range block.Transactions {
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
		s.Transactions = append(s.Transactions, st)
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeBlock(blockBytes []byte) (*externalapi.DomainBlock, error) {
	var s serializableBlock
	if err := gob.NewDecoder(bytes.NewReader(blockBytes)).Decode(&s); err != nil {
		return nil, err
	}

	block := &externalapi.DomainBlock{Header: serializableToHeader(s.Header)}
	for _, st := range s.Transactions {
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
		block.Transactions = append(block.Transactions, tx)
	}
	return block, nil
}
