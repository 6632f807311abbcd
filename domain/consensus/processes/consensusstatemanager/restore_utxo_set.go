package consensusstatemanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// RestorePastUTXOSetIterator reconstructs blockHash's own UTXO set: the
// virtual's committed set if blockHash is its selected parent, or the
// committed set with every selected-parent-chain block's own stored UTXO
// diff (relative to its selected parent) replayed from blockHash back up to
// that anchor.
func (csm *consensusStateManager) RestorePastUTXOSetIterator(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (model.ReadOnlyUTXOSetIterator, error) {

	virtualSelectedParent, err := csm.VirtualSelectedParent(stagingArea)
	if err != nil {
		return nil, err
	}
	if virtualSelectedParent != nil && virtualSelectedParent.Equal(blockHash) {
		return csm.consensusStateStore.VirtualUTXOSetIterator(csm.databaseContext, stagingArea)
	}

	// Walk the selected-parent chain from blockHash back to either the virtual's current
	// selected parent (whose set is the committed set) or genesis (an empty set).
	chain := []*externalapi.DomainHash{}
	current := blockHash
	for current != nil && !(virtualSelectedParent != nil && current.Equal(virtualSelectedParent)) {
		chain = append(chain, current)
		ghostdagData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		current = ghostdagData.SelectedParent()
	}

	var view *utxoView
	if current != nil {
		baseIterator, err := csm.consensusStateStore.VirtualUTXOSetIterator(csm.databaseContext, stagingArea)
		if err != nil {
			return nil, err
		}
		view, err = newUTXOView(baseIterator)
		if err != nil {
			return nil, err
		}
	} else {
		view = &utxoView{entries: make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry)}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		diff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, stagingArea, chain[i])
		if err != nil {
			return nil, err
		}
		for outpoint := range diff.ToRemove() {
			delete(view.entries, outpoint)
		}
		for outpoint, entry := range diff.ToAdd() {
			view.entries[outpoint] = entry
		}
	}

	return newMapUTXOSetIterator(view.entries), nil
}

type mapUTXOSetIterator struct {
	outpoints []externalapi.DomainOutpoint
	entries   map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
	index     int
}

func newMapUTXOSetIterator(entries map[externalapi.DomainOutpoint]*externalapi.UTXOEntry) model.ReadOnlyUTXOSetIterator {
	outpoints := make([]externalapi.DomainOutpoint, 0, len(entries))
	for outpoint := range entries {
		outpoints = append(outpoints, outpoint)
	}
	return &mapUTXOSetIterator{outpoints: outpoints, entries: entries, index: -1}
}

func (it *mapUTXOSetIterator) First() bool {
	it.index = 0
	return len(it.outpoints) > 0
}

func (it *mapUTXOSetIterator) Next() bool {
	it.index++
	return it.index < len(it.outpoints)
}

func (it *mapUTXOSetIterator) Get() (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error) {
	outpoint := it.outpoints[it.index]
	return &outpoint, it.entries[outpoint], nil
}
