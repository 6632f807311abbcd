package syncmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// CreateBlockLocator builds an exponentially-sparse sample of the selected
// parent chain between lowHash and highHash, most recent block first, so a
// peer can binary-search it for the highest block it also has. limit caps
// the number of hashes returned; 0 means no cap.
func (sm *syncManager) CreateBlockLocator(stagingArea *model.StagingArea, lowHash, highHash *externalapi.DomainHash,
	limit int) ([]*externalapi.DomainHash, error) {

	_, addedChain, err := sm.dagTraversalManager.SelectedParentChain(stagingArea, lowHash, highHash)
	if err != nil {
		return nil, err
	}

	// chain is lowHash (exclusive) .. highHash (inclusive), in ascending order;
	// prepend lowHash so the locator can always anchor back to a known block.
	chain := append([]*externalapi.DomainHash{lowHash}, addedChain...)

	locator := make([]*externalapi.DomainHash, 0)
	for i, step := len(chain)-1, 1; i >= 0; i -= step {
		locator = append(locator, chain[i])
		if limit > 0 && len(locator) == limit {
			return locator, nil
		}
		step *= 2
	}

	if !locator[len(locator)-1].Equal(lowHash) {
		locator = append(locator, lowHash)
	}

	return locator, nil
}
