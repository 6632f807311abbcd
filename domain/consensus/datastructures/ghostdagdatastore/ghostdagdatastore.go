// Package ghostdagdatastore persists each block's resolved GHOSTDAG data:
// blue score, blue work, selected parent, and blue/red mergeset.
package ghostdagdatastore

import (
	"bytes"
	"encoding/gob"
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
	"github.com/kaspanet/kaspad/domain/consensus/utils/lrucache"
)

var bucket = dbkeys.MakeBucket([]byte("block-ghostdag-data"))

// ghostdagDataStore represents a store of BlockGHOSTDAGData
type ghostdagDataStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new GHOSTDAGDataStore
func New(cacheSize int) model.GHOSTDAGDataStore {
	return &ghostdagDataStore{cache: lrucache.New(cacheSize)}
}

// Stage stages the given blockGHOSTDAGData for the given blockHash
func (gds *ghostdagDataStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockGHOSTDAGData *model.BlockGHOSTDAGData) {
	gds.stagingShard(stagingArea).toAdd[*blockHash] = blockGHOSTDAGData.Clone()
}

func (gds *ghostdagDataStore) IsStaged(stagingArea *model.StagingArea) bool {
	return gds.stagingShard(stagingArea).isStaged()
}

// Get gets the blockGHOSTDAGData associated with the given blockHash
func (gds *ghostdagDataStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	stagingShard := gds.stagingShard(stagingArea)
	if blockGHOSTDAGData, ok := stagingShard.toAdd[*blockHash]; ok {
		return blockGHOSTDAGData.Clone(), nil
	}

	if blockGHOSTDAGData, ok := gds.cache.Get(blockHash); ok {
		return blockGHOSTDAGData.(*model.BlockGHOSTDAGData).Clone(), nil
	}

	blockGHOSTDAGDataBytes, err := dbContext.Get(gds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	blockGHOSTDAGData, err := gds.deserializeBlockGHOSTDAGData(blockGHOSTDAGDataBytes)
	if err != nil {
		return nil, err
	}
	gds.cache.Add(blockHash, blockGHOSTDAGData)
	return blockGHOSTDAGData.Clone(), nil
}

func (gds *ghostdagDataStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

type serializableGHOSTDAGData struct {
	BlueScore          uint64
	BlueWorkBytes      []byte
	SelectedParent     externalapi.DomainHash
	MergeSetBlues      []externalapi.DomainHash
	MergeSetReds       []externalapi.DomainHash
	BluesAnticoneSizes map[externalapi.DomainHash]model.KType
}

func (gds *ghostdagDataStore) serializeBlockGHOSTDAGData(data *model.BlockGHOSTDAGData) ([]byte, error) {
	s := serializableGHOSTDAGData{
		BlueScore:          data.BlueScore(),
		BluesAnticoneSizes: data.BluesAnticoneSizes(),
	}
	if data.BlueWork() != nil {
		s.BlueWorkBytes = data.BlueWork().Bytes()
	}
	if data.SelectedParent() != nil {
		s.SelectedParent = *data.SelectedParent()
	}
	for _, h := range data.MergeSetBlues() {
		s.MergeSetBlues = append(s.MergeSetBlues, *h)
	}
	for _, h := range data.MergeSetReds() {
		s.MergeSetReds = append(s.MergeSetReds, *h)
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gds *ghostdagDataStore) deserializeBlockGHOSTDAGData(dataBytes []byte) (*model.BlockGHOSTDAGData, error) {
	var s serializableGHOSTDAGData
	if err := gob.NewDecoder(bytes.NewReader(dataBytes)).Decode(&s); err != nil {
		return nil, err
	}

	var blues, reds []*externalapi.DomainHash
	for i := range s.MergeSetBlues {
		h := s.MergeSetBlues[i]
		blues = append(blues, &h)
	}
	for i := range s.MergeSetReds {
		h := s.MergeSetReds[i]
		reds = append(reds, &h)
	}

	blueWork := new(big.Int).SetBytes(s.BlueWorkBytes)
	selectedParent := s.SelectedParent

	return model.NewBlockGHOSTDAGData(s.BlueScore, blueWork, &selectedParent, blues, reds, s.BluesAnticoneSizes), nil
}
