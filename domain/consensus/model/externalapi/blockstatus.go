package externalapi

// BlockStatus represents the validation status of a block in its lifecycle,
// as tracked by the block-processing pipeline.
type BlockStatus byte

const (
	// StatusUnknown is the status of a block that hasn't been seen before
	StatusUnknown BlockStatus = iota

	// StatusHeaderOnly indicates that only the block's header has been validated and stored
	StatusHeaderOnly

	// StatusBodyValid indicates that the block's body has been validated against consensus rules
	StatusBodyValid

	// StatusUTXOValid indicates that the block's virtual-state contribution was applied successfully
	// and its UTXO commitment was verified
	StatusUTXOValid

	// StatusUTXOPendingVerification indicates that the block is body-valid but still awaiting
	// its UTXO verification, e.g. while its selected parent chain is still resolving
	StatusUTXOPendingVerification

	// StatusDisqualifiedFromChain indicates that the block's UTXO commitment did not match the one
	// computed by the virtual/UTXO engine. It remains DAG-valid but can never become a selected
	// chain block.
	StatusDisqualifiedFromChain

	// StatusInvalid indicates that the block violates a consensus rule
	StatusInvalid
)

func (s BlockStatus) String() string {
	switch s {
	case StatusUnknown:
		return "StatusUnknown"
	case StatusHeaderOnly:
		return "StatusHeaderOnly"
	case StatusBodyValid:
		return "StatusBodyValid"
	case StatusUTXOValid:
		return "StatusUTXOValid"
	case StatusUTXOPendingVerification:
		return "StatusUTXOPendingVerification"
	case StatusDisqualifiedFromChain:
		return "StatusDisqualifiedFromChain"
	case StatusInvalid:
		return "StatusInvalid"
	}
	return "<unknown status>"
}

// HasBlock returns whether the body for a block with this status is retained
func (s BlockStatus) HasBlock() bool {
	return s == StatusBodyValid || s == StatusUTXOValid || s == StatusDisqualifiedFromChain
}

// IsValid returns whether a block with this status is known-invalid
func (s BlockStatus) IsValid() bool {
	return s != StatusInvalid
}
