// Package pruningmanager advances the pruning point along the virtual's
// selected parent chain, builds/validates the header proof a syncing peer
// uses to trust a pruning point without replaying full history, and applies
// an imported pruning-point UTXO set during IBD-from-proof.
package pruningmanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspad/domain/consensus/utils/multiset"
	"github.com/kaspanet/kaspad/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// pruningManager resolves and manages the current pruning point
type pruningManager struct {
	databaseContext model.DBManager

	dagTopologyManager  model.DAGTopologyManager
	dagTraversalManager model.DAGTraversalManager
	ghostdagDataStore   model.GHOSTDAGDataStore
	blockHeaderStore    model.BlockHeaderStore
	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	consensusStateStore model.ConsensusStateStore
	pruningStore        model.PruningStore

	genesisHash      *externalapi.DomainHash
	finalityInterval uint64
	pruningDepth     uint64

	// importedUTXOs accumulates the chunks handed to AppendImportedPruningPointUTXOs
	// ahead of the ImportPruningPointUTXOSet call that commits them. Neither of
	// those two methods is given a StagingArea, so this buffer - not a staged
	// store - is where the in-flight import lives.
	importedUTXOs []*externalapi.OutpointAndUTXOEntryPair
}

// New instantiates a new PruningManager
func New(
	databaseContext model.DBManager,
	dagTopologyManager model.DAGTopologyManager,
	dagTraversalManager model.DAGTraversalManager,
	ghostdagDataStore model.GHOSTDAGDataStore,
	blockHeaderStore model.BlockHeaderStore,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	consensusStateStore model.ConsensusStateStore,
	pruningStore model.PruningStore,
	genesisHash *externalapi.DomainHash,
	finalityInterval uint64,
	pruningDepth uint64,
) model.PruningManager {

	return &pruningManager{
		databaseContext:     databaseContext,
		dagTopologyManager:  dagTopologyManager,
		dagTraversalManager: dagTraversalManager,
		ghostdagDataStore:   ghostdagDataStore,
		blockHeaderStore:    blockHeaderStore,
		blockStore:          blockStore,
		blockStatusStore:    blockStatusStore,
		consensusStateStore: consensusStateStore,
		pruningStore:        pruningStore,
		genesisHash:         genesisHash,
		finalityInterval:    finalityInterval,
		pruningDepth:        pruningDepth,
	}
}

// finalityScore is the number of finality intervals that have passed since genesis
// as of a block with the given blue score
func (pm *pruningManager) finalityScore(blueScore uint64) uint64 {
	return blueScore / pm.finalityInterval
}

// UpdatePruningPointByVirtual advances the pruning point to the lowest block,
// at least pruningDepth below the virtual's selected parent, whose finality
// score differs from its own selected parent's - i.e. the earliest block in
// its finality-score bucket, so the pruning point never needs to move
// backwards within that bucket as the virtual advances further.
func (pm *pruningManager) UpdatePruningPointByVirtual(stagingArea *model.StagingArea) error {
	currentPruningPoint, err := pm.pruningStore.PruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		// No pruning point has been staged yet: this must be the first block
		// added to a fresh consensus, so bootstrap the pruning point at genesis.
		pm.pruningStore.StagePruningPoint(stagingArea, pm.genesisHash)
		return nil
	}

	virtualGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return err
	}
	virtualSelectedParent := virtualGHOSTDAGData.SelectedParent()
	if virtualSelectedParent == nil {
		return nil
	}
	candidate := virtualSelectedParent
	candidateGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, candidate)
	if err != nil {
		return err
	}

	// Walk back along the selected parent chain until we're at least pruningDepth
	// below the virtual's selected parent.
	for {
		if virtualGHOSTDAGData.BlueScore()-candidateGHOSTDAGData.BlueScore() >= pm.pruningDepth {
			break
		}
		parent := candidateGHOSTDAGData.SelectedParent()
		if parent == nil {
			// The chain isn't pruningDepth deep yet: nothing to do.
			return nil
		}
		parentGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		candidate, candidateGHOSTDAGData = parent, parentGHOSTDAGData
	}

	// Keep walking back while the selected parent shares the same finality score,
	// so the chosen pruning point is the earliest (lowest blue score) block in its bucket.
	for {
		parent := candidateGHOSTDAGData.SelectedParent()
		if parent == nil {
			break
		}
		parentGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		if pm.finalityScore(parentGHOSTDAGData.BlueScore()) != pm.finalityScore(candidateGHOSTDAGData.BlueScore()) {
			break
		}
		candidate, candidateGHOSTDAGData = parent, parentGHOSTDAGData
	}

	if candidate.Equal(currentPruningPoint) {
		return nil
	}

	pm.pruningStore.StagePruningPoint(stagingArea, candidate)
	return pm.deletePastBlocks(stagingArea, candidate)
}

// deletePastBlocks demotes to header-only every block that is both in the new
// pruning point's past and outside the virtual's past, since such blocks can
// no longer affect the virtual's UTXO state or be reorged into it.
func (pm *pruningManager) deletePastBlocks(stagingArea *model.StagingArea, pruningPoint *externalapi.DomainHash) error {
	virtualParents, err := pm.dagTopologyManager.Parents(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return err
	}

	queue := []*externalapi.DomainHash{}
	parents, err := pm.dagTopologyManager.Parents(stagingArea, pruningPoint)
	if err != nil {
		return err
	}
	queue = append(queue, parents...)

	visited := make(map[externalapi.DomainHash]struct{})
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		isInVirtualPast, err := pm.dagTopologyManager.IsAncestorOfAny(stagingArea, current, virtualParents)
		if err != nil {
			return err
		}
		if isInVirtualPast {
			continue
		}

		err = pm.demoteToHeaderOnly(stagingArea, current)
		if err != nil {
			return err
		}

		currentParents, err := pm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return err
		}
		queue = append(queue, currentParents...)
	}

	return nil
}

func (pm *pruningManager) demoteToHeaderOnly(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	status, err := pm.blockStatusStore.Get(pm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if status == externalapi.StatusHeaderOnly {
		return nil
	}

	pm.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusHeaderOnly)
	pm.blockStore.Delete(stagingArea, blockHash)
	return nil
}

// PruningPoint returns the current pruning point
func (pm *pruningManager) PruningPoint(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	return pm.pruningStore.PruningPoint(pm.databaseContext, stagingArea)
}

// BuildPruningPointProof builds a single-level header chain from genesis to
// the current pruning point, which a syncing peer can replay (checking
// accumulated work and header linkage) to trust the pruning point without
// downloading the blocks themselves.
func (pm *pruningManager) BuildPruningPointProof(stagingArea *model.StagingArea) (*model.PruningPointProof, error) {
	pruningPoint, err := pm.pruningStore.PruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	_, chain, err := pm.dagTraversalManager.SelectedParentChain(stagingArea, nil, pruningPoint)
	if err != nil {
		return nil, err
	}

	headers := make([]*externalapi.DomainBlockHeader, len(chain))
	for i, blockHash := range chain {
		header, err := pm.blockHeaderStore.BlockHeader(pm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		headers[i] = header
	}

	return &model.PruningPointProof{Headers: [][]*externalapi.DomainBlockHeader{headers}}, nil
}

// ValidatePruningPointProof checks that the proof's single header chain is
// internally consistent: it starts at genesis and each header references the
// previous one as a parent.
func (pm *pruningManager) ValidatePruningPointProof(proof *model.PruningPointProof) error {
	if len(proof.Headers) == 0 {
		return errors.Errorf("pruning point proof has no levels")
	}

	headers := proof.Headers[0]
	if len(headers) == 0 {
		return errors.Errorf("pruning point proof has an empty header chain")
	}

	firstHash := consensushashing.HeaderHash(headers[0])
	if !firstHash.Equal(pm.genesisHash) {
		return errors.Errorf("pruning point proof does not start at genesis")
	}

	for i := 1; i < len(headers); i++ {
		previousHash := consensushashing.HeaderHash(headers[i-1])
		if !hashIsParent(headers[i], previousHash) {
			return errors.Errorf("pruning point proof header at index %d does not reference its predecessor as a parent", i)
		}
	}

	return nil
}

func hashIsParent(header *externalapi.DomainBlockHeader, hash *externalapi.DomainHash) bool {
	for _, parent := range header.Parents() {
		if parent.Equal(hash) {
			return true
		}
	}
	return false
}

// ImportPruningPointUTXOSet commits the UTXO entries accumulated via
// AppendImportedPruningPointUTXOs as the virtual's UTXO set, after checking
// their multiset hash against pruningPointHash's own UTXO commitment.
func (pm *pruningManager) ImportPruningPointUTXOSet(stagingArea *model.StagingArea, pruningPointHash *externalapi.DomainHash) error {
	diff := utxo.NewUTXODiff()
	importedMultiset := multiset.New()
	for _, pair := range pm.importedUTXOs {
		err := diff.AddEntry(*pair.Outpoint, pair.UTXOEntry)
		if err != nil {
			return err
		}
		serializedUTXO, err := utxo.SerializeUTXO(pair.UTXOEntry, pair.Outpoint)
		if err != nil {
			return err
		}
		importedMultiset.Add(serializedUTXO)
	}

	header, err := pm.blockHeaderStore.BlockHeader(pm.databaseContext, stagingArea, pruningPointHash)
	if err != nil {
		return err
	}
	expectedUTXOCommitment := header.UTXOCommitment
	utxoSetHash := importedMultiset.Hash()
	if !expectedUTXOCommitment.Equal(utxoSetHash) {
		return errors.Errorf("imported UTXO set for pruning point %s doesn't match its UTXO commitment\n"+
			"calculated hash: %s, commitment: %s", pruningPointHash, utxoSetHash, &expectedUTXOCommitment)
	}

	pm.consensusStateStore.StageVirtualUTXODiff(stagingArea, diff.ToImmutable())
	pm.pruningStore.StagePruningPoint(stagingArea, pruningPointHash)
	return nil
}

// AppendImportedPruningPointUTXOs buffers a chunk of a pruning-point UTXO set
// snapshot received from a syncing peer, ahead of the ImportPruningPointUTXOSet
// call that will commit the full accumulated set.
func (pm *pruningManager) AppendImportedPruningPointUTXOs(
	outpointAndUTXOEntryPairs []*externalapi.OutpointAndUTXOEntryPair) error {

	pm.importedUTXOs = append(pm.importedUTXOs, outpointAndUTXOEntryPairs...)
	return nil
}

// ClearImportedPruningPointUTXOs discards whatever has been buffered by
// AppendImportedPruningPointUTXOs, e.g. after a failed or abandoned import.
func (pm *pruningManager) ClearImportedPruningPointUTXOs() error {
	pm.importedUTXOs = nil
	return nil
}
