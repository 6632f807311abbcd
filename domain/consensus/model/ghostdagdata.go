package model

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// KType is the type used to count GHOSTDAG anticone sizes against the
// protocol's K parameter
type KType uint8

// BlockGHOSTDAGData is the set of data GHOSTDAG resolves for a block:
// its blue score, blue work, selected parent, the ordered blue and red
// halves of its mergeset, and the anticone size (bounded by K) that each
// blue had against the blues chosen before it.
type BlockGHOSTDAGData struct {
	blueScore          uint64
	blueWork           *big.Int
	selectedParent     *externalapi.DomainHash
	mergeSetBlues      []*externalapi.DomainHash
	mergeSetReds       []*externalapi.DomainHash
	bluesAnticoneSizes map[externalapi.DomainHash]KType
}

// NewBlockGHOSTDAGData creates a new, fully populated BlockGHOSTDAGData
func NewBlockGHOSTDAGData(blueScore uint64, blueWork *big.Int, selectedParent *externalapi.DomainHash,
	mergeSetBlues, mergeSetReds []*externalapi.DomainHash,
	bluesAnticoneSizes map[externalapi.DomainHash]KType) *BlockGHOSTDAGData {

	return &BlockGHOSTDAGData{
		blueScore:          blueScore,
		blueWork:           blueWork,
		selectedParent:     selectedParent,
		mergeSetBlues:      mergeSetBlues,
		mergeSetReds:       mergeSetReds,
		bluesAnticoneSizes: bluesAnticoneSizes,
	}
}

// BlueScore returns the block's blue score
func (bgd *BlockGHOSTDAGData) BlueScore() uint64 { return bgd.blueScore }

// BlueWork returns the block's cumulative blue work
func (bgd *BlockGHOSTDAGData) BlueWork() *big.Int { return bgd.blueWork }

// SelectedParent returns the block's selected parent
func (bgd *BlockGHOSTDAGData) SelectedParent() *externalapi.DomainHash { return bgd.selectedParent }

// MergeSetBlues returns the blue half of the block's mergeset, in topological order,
// with the selected parent first
func (bgd *BlockGHOSTDAGData) MergeSetBlues() []*externalapi.DomainHash { return bgd.mergeSetBlues }

// MergeSetReds returns the red half of the block's mergeset
func (bgd *BlockGHOSTDAGData) MergeSetReds() []*externalapi.DomainHash { return bgd.mergeSetReds }

// BluesAnticoneSizes returns, for every blue in the mergeset, the size of its
// anticone restricted to the blues chosen before it
func (bgd *BlockGHOSTDAGData) BluesAnticoneSizes() map[externalapi.DomainHash]KType {
	return bgd.bluesAnticoneSizes
}

// MergeSet returns the blues followed by the reds, in that order
func (bgd *BlockGHOSTDAGData) MergeSet() []*externalapi.DomainHash {
	mergeSet := make([]*externalapi.DomainHash, 0, len(bgd.mergeSetBlues)+len(bgd.mergeSetReds))
	mergeSet = append(mergeSet, bgd.mergeSetBlues...)
	mergeSet = append(mergeSet, bgd.mergeSetReds...)
	return mergeSet
}

// IsBlue returns whether blockHash is in the block's blue mergeset
func (bgd *BlockGHOSTDAGData) IsBlue(blockHash *externalapi.DomainHash) bool {
	for _, blue := range bgd.mergeSetBlues {
		if blue.Equal(blockHash) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of this BlockGHOSTDAGData
func (bgd *BlockGHOSTDAGData) Clone() *BlockGHOSTDAGData {
	if bgd == nil {
		return nil
	}
	anticoneSizes := make(map[externalapi.DomainHash]KType, len(bgd.bluesAnticoneSizes))
	for hash, size := range bgd.bluesAnticoneSizes {
		anticoneSizes[hash] = size
	}
	var blueWork *big.Int
	if bgd.blueWork != nil {
		blueWork = new(big.Int).Set(bgd.blueWork)
	}
	return &BlockGHOSTDAGData{
		blueScore:          bgd.blueScore,
		blueWork:           blueWork,
		selectedParent:     bgd.selectedParent.Clone(),
		mergeSetBlues:      externalapi.CloneHashes(bgd.mergeSetBlues),
		mergeSetReds:       externalapi.CloneHashes(bgd.mergeSetReds),
		bluesAnticoneSizes: anticoneSizes,
	}
}

// VirtualBlockHash is a synthetic hash used to key the virtual block's
// GHOSTDAG data, reachability data and parent relations in the same stores
// used for real blocks, exactly like the DAG tips it merges
var VirtualBlockHash = &externalapi.DomainHash{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
