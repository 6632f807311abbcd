package externalapi

// DomainTransactionID is the domain representation of a transaction ID
type DomainTransactionID DomainHash

// NewDomainTransactionIDFromByteArray constructs a DomainTransactionID from a byte array
func NewDomainTransactionIDFromByteArray(idBytes *[DomainHashSize]byte) *DomainTransactionID {
	id := DomainTransactionID(*idBytes)
	return &id
}

// String returns the transaction ID as a hex string
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Equal returns whether id equals to other
func (id *DomainTransactionID) Equal(other *DomainTransactionID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return *id == *other
}

// Clone clones the DomainTransactionID
func (id *DomainTransactionID) Clone() *DomainTransactionID {
	if id == nil {
		return nil
	}
	clone := *id
	return &clone
}

// DomainOutpoint is the domain representation of a transaction outpoint
type DomainOutpoint struct {
	TransactionID DomainTransactionID
	Index         uint32
}

// NewDomainOutpoint constructs a new DomainOutpoint
func NewDomainOutpoint(transactionID *DomainTransactionID, index uint32) *DomainOutpoint {
	return &DomainOutpoint{TransactionID: *transactionID, Index: index}
}

// Equal returns whether op equals to other
func (op *DomainOutpoint) Equal(other *DomainOutpoint) bool {
	if op == nil || other == nil {
		return op == other
	}
	return op.TransactionID.Equal(&other.TransactionID) && op.Index == other.Index
}

// Clone clones the DomainOutpoint
func (op *DomainOutpoint) Clone() *DomainOutpoint {
	if op == nil {
		return nil
	}
	return &DomainOutpoint{TransactionID: op.TransactionID, Index: op.Index}
}

// DomainTransactionInput is the domain representation of a transaction input
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint
	SignatureScript  []byte
	Sequence         uint64
	SigOpCount       byte
	UTXOEntry        *UTXOEntry
}

// Equal returns whether input equals to other. UTXOEntry, a populated
// convenience field, is intentionally excluded from the comparison.
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}
	if !input.PreviousOutpoint.Equal(&other.PreviousOutpoint) {
		return false
	}
	if !bytesEqual(input.SignatureScript, other.SignatureScript) {
		return false
	}
	if input.Sequence != other.Sequence {
		return false
	}
	return input.SigOpCount == other.SigOpCount
}

// Clone clones the DomainTransactionInput
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	if input == nil {
		return nil
	}
	signatureScriptClone := make([]byte, len(input.SignatureScript))
	copy(signatureScriptClone, input.SignatureScript)
	return &DomainTransactionInput{
		PreviousOutpoint: *input.PreviousOutpoint.Clone(),
		SignatureScript:  signatureScriptClone,
		Sequence:         input.Sequence,
		SigOpCount:       input.SigOpCount,
		UTXOEntry:        input.UTXOEntry.Clone(),
	}
}

// DomainTransactionOutput is the domain representation of a transaction output
type DomainTransactionOutput struct {
	Value           uint64
	ScriptPublicKey []byte
}

// Equal returns whether output equals to other
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}
	if output.Value != other.Value {
		return false
	}
	return bytesEqual(output.ScriptPublicKey, other.ScriptPublicKey)
}

// Clone clones the DomainTransactionOutput
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	if output == nil {
		return nil
	}
	scriptPublicKeyClone := make([]byte, len(output.ScriptPublicKey))
	copy(scriptPublicKeyClone, output.ScriptPublicKey)
	return &DomainTransactionOutput{Value: output.Value, ScriptPublicKey: scriptPublicKeyClone}
}

// DomainTransaction is the domain representation of a transaction
type DomainTransaction struct {
	Version      uint16
	Inputs       []*DomainTransactionInput
	Outputs      []*DomainTransactionOutput
	LockTime     uint64
	SubnetworkID DomainSubnetworkID
	Gas          uint64
	PayloadHash  DomainHash
	Payload      []byte

	Fee  uint64
	Mass uint64
	ID   *DomainTransactionID
}

// IsCoinbase returns whether this transaction is a coinbase transaction
func (tx *DomainTransaction) IsCoinbase() bool {
	return tx.SubnetworkID.Equal(&SubnetworkIDCoinbase)
}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}
	if tx.Version != other.Version || tx.LockTime != other.LockTime || tx.Gas != other.Gas {
		return false
	}
	if !tx.SubnetworkID.Equal(&other.SubnetworkID) {
		return false
	}
	if tx.PayloadHash != other.PayloadHash {
		return false
	}
	if !bytesEqual(tx.Payload, other.Payload) {
		return false
	}
	if len(tx.Inputs) != len(other.Inputs) || len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}
	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}
	return true
}

// Clone clones the DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	if tx == nil {
		return nil
	}
	inputs := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputs[i] = input.Clone()
	}
	outputs := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputs[i] = output.Clone()
	}
	payloadClone := make([]byte, len(tx.Payload))
	copy(payloadClone, tx.Payload)
	return &DomainTransaction{
		Version:      tx.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     tx.LockTime,
		SubnetworkID: tx.SubnetworkID,
		Gas:          tx.Gas,
		PayloadHash:  tx.PayloadHash,
		Payload:      payloadClone,
		Fee:          tx.Fee,
		Mass:         tx.Mass,
		ID:           tx.ID.Clone(),
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
