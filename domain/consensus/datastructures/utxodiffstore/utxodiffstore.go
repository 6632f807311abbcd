// Package utxodiffstore persists each chain block's UTXO diff relative to
// its selected parent (and the hash of the child the diff is expressed
// against), used to reconstruct historical UTXO views without materializing
// every block's full UTXO set.
package utxodiffstore

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
	"github.com/kaspanet/kaspad/domain/consensus/utils/utxo"
)

var diffBucket = dbkeys.MakeBucket([]byte("utxo-diffs"))
var diffChildBucket = dbkeys.MakeBucket([]byte("utxo-diff-children"))

// utxoDiffStore represents a store of UTXODiffs
type utxoDiffStore struct {
	diffCache      *lrucache.LRUCache
	diffChildCache *lrucache.LRUCache
}

// New instantiates a new UTXODiffStore
func New(cacheSize int) model.UTXODiffStore {
	return &utxoDiffStore{
		diffCache:      lrucache.New(cacheSize),
		diffChildCache: lrucache.New(cacheSize),
	}
}

type utxoDiffStagingShard struct {
	store              *utxoDiffStore
	toAddDiff          map[externalapi.DomainHash]model.UTXODiff
	toAddDiffChild     map[externalapi.DomainHash]*externalapi.DomainHash
}

func (uds *utxoDiffStore) stagingShard(stagingArea *model.StagingArea) *utxoDiffStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDUTXODiff, func() model.StagingShard {
		return &utxoDiffStagingShard{
			store:          uds,
			toAddDiff:      make(map[externalapi.DomainHash]model.UTXODiff),
			toAddDiffChild: make(map[externalapi.DomainHash]*externalapi.DomainHash),
		}
	}).(*utxoDiffStagingShard)
}

func (udss *utxoDiffStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, diff := range udss.toAddDiff {
		diffBytes, err := serializeUTXODiff(diff)
		if err != nil {
			return err
		}
		if err := dbTx.Put(udss.store.diffHashAsKey(&hash), diffBytes); err != nil {
			return err
		}
		udss.store.diffCache.Add(&hash, diff)
	}
	for hash, child := range udss.toAddDiffChild {
		if err := dbTx.Put(udss.store.diffChildHashAsKey(&hash), child[:]); err != nil {
			return err
		}
		udss.store.diffChildCache.Add(&hash, child)
	}
	return nil
}

// Stage stages the given utxoDiff and utxoDiffChild for the given blockHash
func (uds *utxoDiffStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, utxoDiff model.UTXODiff, utxoDiffChild *externalapi.DomainHash) {
	stagingShard := uds.stagingShard(stagingArea)
	stagingShard.toAddDiff[*blockHash] = utxoDiff
	if utxoDiffChild != nil {
		stagingShard.toAddDiffChild[*blockHash] = utxoDiffChild
	}
}

func (uds *utxoDiffStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := uds.stagingShard(stagingArea)
	return len(stagingShard.toAddDiff) != 0 || len(stagingShard.toAddDiffChild) != 0
}

// UTXODiff gets the utxoDiff associated with the given blockHash
func (uds *utxoDiffStore) UTXODiff(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (model.UTXODiff, error) {
	stagingShard := uds.stagingShard(stagingArea)
	if diff, ok := stagingShard.toAddDiff[*blockHash]; ok {
		return diff, nil
	}

	if diff, ok := uds.diffCache.Get(blockHash); ok {
		return diff.(model.UTXODiff), nil
	}

	diffBytes, err := dbContext.Get(uds.diffHashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	diff, err := deserializeUTXODiff(diffBytes)
	if err != nil {
		return nil, err
	}
	uds.diffCache.Add(blockHash, diff)
	return diff, nil
}

// UTXODiffChild gets the hash of the block this block's diff is expressed against
func (uds *utxoDiffStore) UTXODiffChild(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {
	stagingShard := uds.stagingShard(stagingArea)
	if child, ok := stagingShard.toAddDiffChild[*blockHash]; ok {
		return child, nil
	}

	if child, ok := uds.diffChildCache.Get(blockHash); ok {
		return child.(*externalapi.DomainHash), nil
	}

	childBytes, err := dbContext.Get(uds.diffChildHashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	child, err := externalapi.NewDomainHashFromByteSlice(childBytes)
	if err != nil {
		return nil, err
	}
	uds.diffChildCache.Add(blockHash, child)
	return child, nil
}

func (uds *utxoDiffStore) diffHashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return diffBucket.Key(hash[:])
}

func (uds *utxoDiffStore) diffChildHashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return diffChildBucket.Key(hash[:])
}

type serializableOutpoint struct {
	TransactionID externalapi.DomainHash
	Index         uint32
}

type serializableUTXOEntry struct {
	Amount          uint64
	ScriptPublicKey []byte
	BlockBlueScore  uint64
	IsCoinbase      bool
}

type serializableUTXODiff struct {
	ToAddOutpoints    []serializableOutpoint
	ToAddEntries      []serializableUTXOEntry
	ToRemoveOutpoints []serializableOutpoint
	ToRemoveEntries   []serializableUTXOEntry
}

func serializeUTXODiff(diff model.UTXODiff) ([]byte, error) {
	s := serializableUTXODiff{}
	for outpoint, entry := range diff.ToAdd() {
		s.ToAddOutpoints = append(s.ToAddOutpoints, serializableOutpoint{
			TransactionID: externalapi.DomainHash(outpoint.TransactionID), Index: outpoint.Index,
		})
		s.ToAddEntries = append(s.ToAddEntries, serializableUTXOEntry{
			Amount: entry.Amount, ScriptPublicKey: entry.ScriptPublicKey,
			BlockBlueScore: entry.BlockBlueScore, IsCoinbase: entry.IsCoinbase,
		})
	}
	for outpoint, entry := range diff.ToRemove() {
		s.ToRemoveOutpoints = append(s.ToRemoveOutpoints, serializableOutpoint{
			TransactionID: externalapi.DomainHash(outpoint.TransactionID), Index: outpoint.Index,
		})
		s.ToRemoveEntries = append(s.ToRemoveEntries, serializableUTXOEntry{
			Amount: entry.Amount, ScriptPublicKey: entry.ScriptPublicKey,
			BlockBlueScore: entry.BlockBlueScore, IsCoinbase: entry.IsCoinbase,
		})
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeUTXODiff(diffBytes []byte) (model.UTXODiff, error) {
	var s serializableUTXODiff
	if err := gob.NewDecoder(bytes.NewReader(diffBytes)).Decode(&s); err != nil {
		return nil, err
	}

	mutableDiff := utxo.NewUTXODiff()
	for i, so := range s.ToAddOutpoints {
		entry := s.ToAddEntries[i]
		outpoint := externalapi.DomainOutpoint{TransactionID: externalapi.DomainTransactionID(so.TransactionID), Index: so.Index}
		if err := mutableDiff.AddEntry(outpoint, &externalapi.UTXOEntry{
			Amount: entry.Amount, ScriptPublicKey: entry.ScriptPublicKey,
			BlockBlueScore: entry.BlockBlueScore, IsCoinbase: entry.IsCoinbase,
		}); err != nil {
			return nil, err
		}
	}
	for i, so := range s.ToRemoveOutpoints {
		entry := s.ToRemoveEntries[i]
		outpoint := externalapi.DomainOutpoint{TransactionID: externalapi.DomainTransactionID(so.TransactionID), Index: so.Index}
		if err := mutableDiff.RemoveEntry(outpoint, &externalapi.UTXOEntry{
			Amount: entry.Amount, ScriptPublicKey: entry.ScriptPublicKey,
			BlockBlueScore: entry.BlockBlueScore, IsCoinbase: entry.IsCoinbase,
		}); err != nil {
			return nil, err
		}
	}
	return mutableDiff.ToImmutable(), nil
}
