package externalapi

import "math/big"

// DomainBlockHeader is the domain representation of a block header
type DomainBlockHeader struct {
	Version              uint16
	ParentsByLevel       [][]*DomainHash
	HashMerkleRoot       DomainHash
	AcceptedIDMerkleRoot DomainHash
	UTXOCommitment       DomainHash
	TimeInMilliseconds   int64
	Bits                 uint32
	Nonce                uint64
	DAAScore             uint64
	BlueWork             *big.Int
	BlueScore            uint64
	PruningPoint         DomainHash
}

// Parents returns the level-0 (direct DAG) parents of the header
func (header *DomainBlockHeader) Parents() []*DomainHash {
	if len(header.ParentsByLevel) == 0 {
		return nil
	}
	return header.ParentsByLevel[0]
}

// BlockLevel returns the level assigned to ParentsByLevel[level], i.e. the
// index at which this block itself would appear as a parent.
func (header *DomainBlockHeader) BlockLevel(maxBlockLevel int, powHashBitLen int) int {
	level := maxBlockLevel - powHashBitLen
	if level < 0 {
		return 0
	}
	return level
}

// Clone clones the DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	if header == nil {
		return nil
	}
	parentsByLevel := make([][]*DomainHash, len(header.ParentsByLevel))
	for i, level := range header.ParentsByLevel {
		parentsByLevel[i] = CloneHashes(level)
	}
	var blueWork *big.Int
	if header.BlueWork != nil {
		blueWork = new(big.Int).Set(header.BlueWork)
	}
	return &DomainBlockHeader{
		Version:              header.Version,
		ParentsByLevel:       parentsByLevel,
		HashMerkleRoot:       header.HashMerkleRoot,
		AcceptedIDMerkleRoot: header.AcceptedIDMerkleRoot,
		UTXOCommitment:       header.UTXOCommitment,
		TimeInMilliseconds:   header.TimeInMilliseconds,
		Bits:                 header.Bits,
		Nonce:                header.Nonce,
		DAAScore:             header.DAAScore,
		BlueWork:             blueWork,
		BlueScore:            header.BlueScore,
		PruningPoint:         header.PruningPoint,
	}
}

// Equal returns whether header equals to other
func (header *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}
	if header.Version != other.Version || header.TimeInMilliseconds != other.TimeInMilliseconds ||
		header.Bits != other.Bits || header.Nonce != other.Nonce || header.DAAScore != other.DAAScore ||
		header.BlueScore != other.BlueScore {
		return false
	}
	if header.HashMerkleRoot != other.HashMerkleRoot || header.AcceptedIDMerkleRoot != other.AcceptedIDMerkleRoot ||
		header.UTXOCommitment != other.UTXOCommitment || header.PruningPoint != other.PruningPoint {
		return false
	}
	if (header.BlueWork == nil) != (other.BlueWork == nil) {
		return false
	}
	if header.BlueWork != nil && header.BlueWork.Cmp(other.BlueWork) != 0 {
		return false
	}
	if len(header.ParentsByLevel) != len(other.ParentsByLevel) {
		return false
	}
	for i, level := range header.ParentsByLevel {
		if !HashesEqual(level, other.ParentsByLevel[i]) {
			return false
		}
	}
	return true
}

// DomainBlock is the domain representation of a block
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone clones the DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	if block == nil {
		return nil
	}
	transactions := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactions[i] = tx.Clone()
	}
	return &DomainBlock{Header: block.Header.Clone(), Transactions: transactions}
}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}
	if !block.Header.Equal(other.Header) {
		return false
	}
	if len(block.Transactions) != len(other.Transactions) {
		return false
	}
	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}
	return true
}
