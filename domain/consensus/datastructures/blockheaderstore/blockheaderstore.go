// Package blockheaderstore persists block headers, one per DAG block, plus a
// running count of how many have ever been staged.
package blockheaderstore

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

var bucket = dbkeys.MakeBucket([]byte("block-headers"))
var countKey = dbkeys.MakeBucket().Key([]byte("block-headers-count"))

type blockHeaderStore struct {
	cache *lrucache.LRUCache
	count uint64
}

// New instantiates a new BlockHeaderStore
func New(dbContext model.DBReader, cacheSize int) (model.BlockHeaderStore, error) {
	store := &blockHeaderStore{cache: lrucache.New(cacheSize)}

	hasCount, err := dbContext.Has(countKey)
	if err != nil {
		return nil, err
	}
	if hasCount {
		countBytes, err := dbContext.Get(countKey)
		if err != nil {
			return nil, err
		}
		store.count = binary.LittleEndian.Uint64(countBytes)
	}

	return store, nil
}

type blockHeaderStagingShard struct {
	store    *blockHeaderStore
	toAdd    map[externalapi.DomainHash]*externalapi.DomainBlockHeader
	toDelete map[externalapi.DomainHash]struct{}
}

func (bhs *blockHeaderStore) stagingShard(stagingArea *model.StagingArea) *blockHeaderStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockHeader, func() model.StagingShard {
		return &blockHeaderStagingShard{
			store:    bhs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockHeaderStagingShard)
}

func (bhss *blockHeaderStagingShard) Commit(dbTx model.DBTransaction) error {
	delta := int64(0)
	for hash, header := range bhss.toAdd {
		headerBytes, err := serializeHeader(header)
		if err != nil {
			return err
		}
		alreadyExists, err := bhss.store.HasBlockHeader(dbTx, model.NewStagingArea(), &hash)
		if err != nil {
			return err
		}
		if err := dbTx.Put(bhss.store.hashAsKey(&hash), headerBytes); err != nil {
			return err
		}
		bhss.store.cache.Add(&hash, header)
		if !alreadyExists {
			delta++
		}
	}

	for hash := range bhss.toDelete {
		if err := dbTx.Delete(bhss.store.hashAsKey(&hash)); err != nil {
			return err
		}
		bhss.store.cache.Remove(&hash)
		delta--
	}

	newCount := uint64(int64(bhss.store.count) + delta)
	countBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(countBytes, newCount)
	if err := dbTx.Put(countKey, countBytes); err != nil {
		return err
	}
	bhss.store.count = newCount

	return nil
}

// Stage stages the given block header for the given blockHash
func (bhs *blockHeaderStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader) {
	stagingShard := bhs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockHeader.Clone()
}

func (bhs *blockHeaderStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := bhs.stagingShard(stagingArea)
	return len(stagingShard.toAdd) != 0 || len(stagingShard.toDelete) != 0
}

// BlockHeader gets the block header associated with the given blockHash
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	stagingShard := bhs.stagingShard(stagingArea)
	if header, ok := stagingShard.toAdd[*blockHash]; ok {
		return header.Clone(), nil
	}

	if header, ok := bhs.cache.Get(blockHash); ok {
		return header.(*externalapi.DomainBlockHeader).Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := deserializeHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a block header with the given hash exists in the store
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	stagingShard := bhs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}
	if bhs.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(bhs.hashAsKey(blockHash))
}

// Delete deletes the block header associated with the given blockHash
func (bhs *blockHeaderStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bhs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		delete(stagingShard.toAdd, *blockHash)
		return
	}
	stagingShard.toDelete[*blockHash] = struct{}{}
}

// Count returns the number of headers ever staged, net of deletions, including
// those staged in stagingArea but not yet committed
func (bhs *blockHeaderStore) Count(stagingArea *model.StagingArea) uint64 {
	stagingShard := bhs.stagingShard(stagingArea)
	return bhs.count + uint64(len(stagingShard.toAdd)) - uint64(len(stagingShard.toDelete))
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
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

func serializeHeader(header *externalapi.DomainBlockHeader) ([]byte, error) {
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

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeHeader(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	var s serializableBlockHeader
	if err := gob.NewDecoder(bytes.NewReader(headerBytes)).Decode(&s); err != nil {
		return nil, err
	}

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
	return header, nil
}
