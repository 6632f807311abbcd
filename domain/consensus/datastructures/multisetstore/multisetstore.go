// Package multisetstore persists each block's incremental UTXO-commitment
// multiset, so it can be resumed and extended without recomputing it from
// the full UTXO set.
package multisetstore

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
	"github.com/kaspanet/kaspad/domain/consensus/utils/multiset"
)

var bucket = dbkeys.MakeBucket([]byte("multisets"))

// multisetStore represents a store of Multisets
type multisetStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new MultisetStore
func New(cacheSize int) model.MultisetStore {
	return &multisetStore{cache: lrucache.New(cacheSize)}
}

type multisetStagingShard struct {
	store *multisetStore
	toAdd map[externalapi.DomainHash]model.Multiset
}

func (ms *multisetStore) stagingShard(stagingArea *model.StagingArea) *multisetStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDMultiset, func() model.StagingShard {
		return &multisetStagingShard{
			store: ms,
			toAdd: make(map[externalapi.DomainHash]model.Multiset),
		}
	}).(*multisetStagingShard)
}

func (mss *multisetStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, m := range mss.toAdd {
		if err := dbTx.Put(mss.store.hashAsKey(&hash), m.Serialize()); err != nil {
			return err
		}
		mss.store.cache.Add(&hash, m)
	}
	return nil
}

// Stage stages the given multiset for the given blockHash
func (ms *multisetStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, m model.Multiset) {
	ms.stagingShard(stagingArea).toAdd[*blockHash] = m.Clone()
}

func (ms *multisetStore) IsStaged(stagingArea *model.StagingArea) bool {
	return len(ms.stagingShard(stagingArea).toAdd) != 0
}

// Get gets the multiset associated with the given blockHash
func (ms *multisetStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (model.Multiset, error) {
	stagingShard := ms.stagingShard(stagingArea)
	if m, ok := stagingShard.toAdd[*blockHash]; ok {
		return m.Clone(), nil
	}

	if m, ok := ms.cache.Get(blockHash); ok {
		return m.(model.Multiset).Clone(), nil
	}

	multisetBytes, err := dbContext.Get(ms.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	m, err := multiset.FromBytes(multisetBytes)
	if err != nil {
		return nil, err
	}
	ms.cache.Add(blockHash, m)
	return m.Clone(), nil
}

func (ms *multisetStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}
