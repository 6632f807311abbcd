// Package blockrelationstore persists each block's parent/child edges.
package blockrelationstore

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
)

var bucket = dbkeys.MakeBucket([]byte("block-relations"))

type blockRelationStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new BlockRelationStore
func New(cacheSize int) model.BlockRelationStore {
	return &blockRelationStore{cache: lrucache.New(cacheSize)}
}

type blockRelationStagingShard struct {
	store *blockRelationStore
	toAdd map[externalapi.DomainHash]*model.BlockRelations
}

func (brs *blockRelationStore) stagingShard(stagingArea *model.StagingArea) *blockRelationStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockRelation, func() model.StagingShard {
		return &blockRelationStagingShard{
			store: brs,
			toAdd: make(map[externalapi.DomainHash]*model.BlockRelations),
		}
	}).(*blockRelationStagingShard)
}

func (brss *blockRelationStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, relations := range brss.toAdd {
		relationsBytes, err := serializeBlockRelations(relations)
		if err != nil {
			return err
		}
		if err := dbTx.Put(brss.store.hashAsKey(&hash), relationsBytes); err != nil {
			return err
		}
		brss.store.cache.Add(&hash, relations)
	}
	return nil
}

// StageBlockRelation stages the given blockRelations for the given blockHash
func (brs *blockRelationStore) StageBlockRelation(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockRelations *model.BlockRelations) {
	stagingShard := brs.stagingShard(stagingArea)
	stagingShard.toAdd[*blockHash] = blockRelations.Clone()
}

func (brs *blockRelationStore) IsStaged(stagingArea *model.StagingArea) bool {
	return len(brs.stagingShard(stagingArea).toAdd) != 0
}

// BlockRelation gets the blockRelations associated with the given blockHash
func (brs *blockRelationStore) BlockRelation(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockRelations, error) {
	stagingShard := brs.stagingShard(stagingArea)
	if relations, ok := stagingShard.toAdd[*blockHash]; ok {
		return relations.Clone(), nil
	}

	if relations, ok := brs.cache.Get(blockHash); ok {
		return relations.(*model.BlockRelations).Clone(), nil
	}

	relationsBytes, err := dbContext.Get(brs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	relations, err := deserializeBlockRelations(relationsBytes)
	if err != nil {
		return nil, err
	}
	brs.cache.Add(blockHash, relations)
	return relations.Clone(), nil
}

// Has returns whether a BlockRelations entry exists for the given blockHash
func (brs *blockRelationStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	stagingShard := brs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}
	if brs.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(brs.hashAsKey(blockHash))
}

func (brs *blockRelationStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

type serializableBlockRelations struct {
	Parents  []externalapi.DomainHash
	Children []externalapi.DomainHash
}

func serializeBlockRelations(relations *model.BlockRelations) ([]byte, error) {
	s := serializableBlockRelations{}
	for _, parent := range relations.Parents {
		s.Parents = append(s.Parents, *parent)
	}
	for _, child := range relations.Children {
		s.Children = append(s.Children, *child)
	}
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeBlockRelations(relationsBytes []byte) (*model.BlockRelations, error) {
	var s serializableBlockRelations
	if err := gob.NewDecoder(bytes.NewReader(relationsBytes)).Decode(&s); err != nil {
		return nil, err
	}
	relations := &model.BlockRelations{}
	for i := range s.Parents {
		parent := s.Parents[i]
		relations.Parents = append(relations.Parents, &parent)
	}
	for i := range s.Children {
		child := s.Children[i]
		relations.Children = append(relations.Children, &child)
	}
	return relations, nil
}
