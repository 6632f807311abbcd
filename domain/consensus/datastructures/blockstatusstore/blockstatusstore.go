// Package blockstatusstore persists each block's BlockStatus lifecycle state.
package blockstatusstore

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
)

var bucket = dbkeys.MakeBucket([]byte("block-statuses"))

type blockStatusStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new BlockStatusStore
func New(cacheSize int) model.BlockStatusStore {
	return &blockStatusStore{cache: lrucache.New(cacheSize)}
}

type blockStatusStagingShard struct {
	store *blockStatusStore
	toAdd map[externalapi.DomainHash]externalapi.BlockStatus
}

func (bss *blockStatusStore) stagingShard(stagingArea *model.StagingArea) *blockStatusStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockStatus, func() model.StagingShard {
		return &blockStatusStagingShard{
			store: bss,
			toAdd: make(map[externalapi.DomainHash]externalapi.BlockStatus),
		}
	}).(*blockStatusStagingShard)
}

func (bsss *blockStatusStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, status := range bsss.toAdd {
		if err := dbTx.Put(bsss.store.hashAsKey(&hash), []byte{byte(status)}); err != nil {
			return err
		}
		bsss.store.cache.Add(&hash, status)
	}
	return nil
}

// Stage stages the given status for the given blockHash
func (bss *blockStatusStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, status externalapi.BlockStatus) {
	bss.stagingShard(stagingArea).toAdd[*blockHash] = status
}

func (bss *blockStatusStore) IsStaged(stagingArea *model.StagingArea) bool {
	return len(bss.stagingShard(stagingArea).toAdd) != 0
}

// Get returns the BlockStatus associated with the given blockHash
func (bss *blockStatusStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	stagingShard := bss.stagingShard(stagingArea)
	if status, ok := stagingShard.toAdd[*blockHash]; ok {
		return status, nil
	}

	if status, ok := bss.cache.Get(blockHash); ok {
		return status.(externalapi.BlockStatus), nil
	}

	statusBytes, err := dbContext.Get(bss.hashAsKey(blockHash))
	if err != nil {
		return externalapi.StatusUnknown, err
	}
	status := externalapi.BlockStatus(statusBytes[0])
	bss.cache.Add(blockHash, status)
	return status, nil
}

// Exists returns whether a BlockStatus entry exists for the given blockHash
func (bss *blockStatusStore) Exists(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	stagingShard := bss.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}
	if bss.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(bss.hashAsKey(blockHash))
}

func (bss *blockStatusStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}
