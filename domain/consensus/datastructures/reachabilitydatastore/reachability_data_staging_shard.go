package reachabilitydatastore

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

type reachabilityDataStagingShard struct {
	store          *reachabilityDataStore
	toAdd          map[externalapi.DomainHash]*model.ReachabilityData
	newReindexRoot *externalapi.DomainHash
}

func (rds *reachabilityDataStore) stagingShard(stagingArea *model.StagingArea) *reachabilityDataStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDReachability, func() model.StagingShard {
		return &reachabilityDataStagingShard{
			store: rds,
			toAdd: make(map[externalapi.DomainHash]*model.ReachabilityData),
		}
	}).(*reachabilityDataStagingShard)
}

func (rdss *reachabilityDataStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, reachabilityData := range rdss.toAdd {
		reachabilityDataBytes, err := serializeReachabilityData(reachabilityData)
		if err != nil {
			return err
		}
		if err := dbTx.Put(rdss.store.hashAsKey(&hash), reachabilityDataBytes); err != nil {
			return err
		}
		rdss.store.cache[hash] = reachabilityData
	}

	if rdss.newReindexRoot != nil {
		if err := dbTx.Put(reindexRootKey, rdss.newReindexRoot[:]); err != nil {
			return err
		}
	}

	return nil
}
