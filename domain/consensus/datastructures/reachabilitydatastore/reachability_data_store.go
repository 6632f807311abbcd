// Package reachabilitydatastore persists the per-block reachability tree
// nodes (interval, parent, children, future-covering set) and the single
// global reindex root.
package reachabilitydatastore

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
)

var reachabilityDataBucket = dbkeys.MakeBucket([]byte("reachability-data"))
var reindexRootKey = dbkeys.MakeBucket([]byte("reachability-reindex-root")).Key([]byte("root"))

// reachabilityDataStore represents a store of ReachabilityData, keyed by
// block hash, plus the single reindex root hash
type reachabilityDataStore struct {
	cache map[externalapi.DomainHash]*model.ReachabilityData
}

// New instantiates a new ReachabilityDataStore
func New() model.ReachabilityDataStore {
	return &reachabilityDataStore{
		cache: make(map[externalapi.DomainHash]*model.ReachabilityData),
	}
}

// StageReachabilityData stages the given reachabilityData for the given blockHash
func (rds *reachabilityDataStore) StageReachabilityData(
	stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, reachabilityData *model.ReachabilityData) {

	stagingShard := rds.stagingShard(stagingArea)
	stagingShard.toAdd[*blockHash] = reachabilityData.Clone()
}

// StageReindexRoot stages the given hash as the new reindex root
func (rds *reachabilityDataStore) StageReindexRoot(stagingArea *model.StagingArea, reindexRoot *externalapi.DomainHash) {
	stagingShard := rds.stagingShard(stagingArea)
	stagingShard.newReindexRoot = reindexRoot
}

func (rds *reachabilityDataStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := rds.stagingShard(stagingArea)
	return len(stagingShard.toAdd) != 0 || stagingShard.newReindexRoot != nil
}

// ReachabilityData gets the ReachabilityData associated with the given blockHash
func (rds *reachabilityDataStore) ReachabilityData(
	dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*model.ReachabilityData, error) {

	stagingShard := rds.stagingShard(stagingArea)

	if reachabilityData, ok := stagingShard.toAdd[*blockHash]; ok {
		return reachabilityData.Clone(), nil
	}

	if reachabilityData, ok := rds.cache[*blockHash]; ok {
		return reachabilityData.Clone(), nil
	}

	reachabilityDataBytes, err := dbContext.Get(rds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	reachabilityData, err := deserializeReachabilityData(reachabilityDataBytes)
	if err != nil {
		return nil, err
	}
	rds.cache[*blockHash] = reachabilityData
	return reachabilityData.Clone(), nil
}

// HasReachabilityData returns whether the given blockHash has a ReachabilityData entry
func (rds *reachabilityDataStore) HasReachabilityData(
	dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := rds.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}
	if _, ok := rds.cache[*blockHash]; ok {
		return true, nil
	}
	return dbContext.Has(rds.hashAsKey(blockHash))
}

// ReindexRoot returns the current global reindex root
func (rds *reachabilityDataStore) ReindexRoot(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	stagingShard := rds.stagingShard(stagingArea)
	if stagingShard.newReindexRoot != nil {
		return stagingShard.newReindexRoot, nil
	}

	reindexRootBytes, err := dbContext.Get(reindexRootKey)
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainHashFromByteSlice(reindexRootBytes)
}

func (rds *reachabilityDataStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return reachabilityDataBucket.Key(hash[:])
}

// serializableReachabilityData is the gob-encodable mirror of model.ReachabilityData.
// A hand-written protobuf schema isn't available for this store, so plain gob
// encoding is used instead; the data never leaves the process so there's no
// interoperability requirement to satisfy.
type serializableReachabilityData struct {
	HasParent         bool
	Parent            externalapi.DomainHash
	Children          []externalapi.DomainHash
	IntervalStart     uint64
	IntervalEnd       uint64
	FutureCoveringSet []externalapi.DomainHash
}

func serializeReachabilityData(data *model.ReachabilityData) ([]byte, error) {
	s := serializableReachabilityData{
		IntervalStart: data.TreeNode.Interval.Start,
		IntervalEnd:   data.TreeNode.Interval.End,
	}
	if data.TreeNode.Parent != nil {
		s.HasParent = true
		s.Parent = *data.TreeNode.Parent
	}
	for _, child := range data.TreeNode.Children {
		s.Children = append(s.Children, *child)
	}
	for _, covering := range data.FutureCoveringSet {
		s.FutureCoveringSet = append(s.FutureCoveringSet, *covering)
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeReachabilityData(reachabilityDataBytes []byte) (*model.ReachabilityData, error) {
	var s serializableReachabilityData
	if err := gob.NewDecoder(bytes.NewReader(reachabilityDataBytes)).Decode(&s); err != nil {
		return nil, err
	}

	treeNode := &model.ReachabilityTreeNode{
		Interval: &model.ReachabilityInterval{Start: s.IntervalStart, End: s.IntervalEnd},
	}
	if s.HasParent {
		parent := s.Parent
		treeNode.Parent = &parent
	}
	for i := range s.Children {
		child := s.Children[i]
		treeNode.Children = append(treeNode.Children, &child)
	}

	data := &model.ReachabilityData{TreeNode: treeNode}
	for i := range s.FutureCoveringSet {
		covering := s.FutureCoveringSet[i]
		data.FutureCoveringSet = append(data.FutureCoveringSet, &covering)
	}
	return data, nil
}
