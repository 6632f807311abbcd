package externalapi

// SelectedParentChainChanges holds the blocks added to and removed from the
// selected parent chain by a single virtual-state update, in chain order
type SelectedParentChainChanges struct {
	Added   []*DomainHash
	Removed []*DomainHash
}

// UTXOChanges holds the additions and removals applied to the UTXO set, keyed
// by outpoint, as reported to utxos-changed subscribers
type UTXOChanges struct {
	Added   map[DomainOutpoint]*UTXOEntry
	Removed map[DomainOutpoint]*UTXOEntry
}

// BlockInsertionResult is returned by the block processor after a block was
// successfully validated and inserted into the DAG
type BlockInsertionResult struct {
	BlockStatus                 BlockStatus
	SelectedParentChainChanges  *SelectedParentChainChanges
	UTXOChanges                 *UTXOChanges
	VirtualSelectedParentBlueScore uint64
	VirtualDAAScore                uint64
	VirtualSelectedParentHash      *DomainHash
}
