package consensushashing

import (
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/hashes"
)

// TransactionID computes a transaction's ID: the domain-separated hash of its
// canonical encoding with the signature scripts zeroed out, so that malleating
// a signature script (without invalidating it) never changes the ID.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	hw := hashes.NewTransactionIDHashWriter()
	writeTransaction(hw, tx, false)
	hash := hw.Finalize()
	id := externalapi.DomainTransactionID(*hash)
	return &id
}

// TransactionHash computes the full transaction hash, including signature
// scripts, used for wire-level duplicate detection
func TransactionHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	hw := hashes.NewTransactionHashWriter()
	writeTransaction(hw, tx, true)
	return hw.Finalize()
}

func writeTransaction(hw *hashes.HashWriter, tx *externalapi.DomainTransaction, includeSignatureScript bool) {
	hw.WriteUint16(tx.Version)
	hw.WriteUint64(uint64(len(tx.Inputs)))
	for _, input := range tx.Inputs {
		hw.InfallibleWrite(input.PreviousOutpoint.TransactionID[:])
		hw.WriteUint32(input.PreviousOutpoint.Index)
		if includeSignatureScript {
			hw.WriteUint64(uint64(len(input.SignatureScript)))
			hw.InfallibleWrite(input.SignatureScript)
		}
		hw.WriteUint64(input.Sequence)
	}
	hw.WriteUint64(uint64(len(tx.Outputs)))
	for _, output := range tx.Outputs {
		hw.WriteUint64(output.Value)
		hw.WriteUint64(uint64(len(output.ScriptPublicKey)))
		hw.InfallibleWrite(output.ScriptPublicKey)
	}
	hw.WriteUint64(tx.LockTime)
	hw.InfallibleWrite(tx.SubnetworkID[:])
	hw.WriteUint64(tx.Gas)
	hw.InfallibleWrite(tx.PayloadHash[:])
	hw.WriteUint64(uint64(len(tx.Payload)))
	hw.InfallibleWrite(tx.Payload)
}
