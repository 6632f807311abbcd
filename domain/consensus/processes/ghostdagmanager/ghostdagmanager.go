// Package ghostdagmanager computes each block's GHOSTDAG data: its selected
// parent, the blue/red partition of its mergeset, and the cumulative
// blue-score/blue-work that together let any two DAG tips be compared and
// ordered into one virtual selected chain.
package ghostdagmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

type ghostdagManager struct {
	databaseContext    model.DBReader
	dagTopologyManager model.DAGTopologyManager
	ghostdagDataStore  model.GHOSTDAGDataStore
	headerStore        model.BlockHeaderStore
	k                  model.KType
	genesisHash        *externalapi.DomainHash
}

// New returns a new GHOSTDAGManager
func New(
	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagDataStore model.GHOSTDAGDataStore,
	headerStore model.BlockHeaderStore,
	k model.KType,
	genesisHash *externalapi.DomainHash) model.GHOSTDAGManager {

	return &ghostdagManager{
		databaseContext:    databaseContext,
		dagTopologyManager: dagTopologyManager,
		ghostdagDataStore:  ghostdagDataStore,
		headerStore:        headerStore,
		k:                  k,
		genesisHash:        genesisHash,
	}
}

// BlockData returns the staged or stored GHOSTDAG data for blockHash
func (gm *ghostdagManager) BlockData(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	return gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHash)
}
