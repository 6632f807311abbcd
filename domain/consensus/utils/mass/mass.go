// Package mass computes a transaction's consensus mass: the weighted
// resource cost charged against a block's max_block_mass budget, combining a
// size/script/sig-op compute term with a storage-mass term that taxes
// transactions that shrink the UTXO set's average coin value.
package mass

import "github.com/kaspanet/kaspad/domain/consensus/model/externalapi"

// Parameters are the per-network constants the mass formula is weighted by
type Parameters struct {
	MassPerTxByte           uint64
	MassPerScriptPubKeyByte uint64
	MassPerSigOp            uint64
	StorageMassParameter    uint64
	StorageMassActivated    bool
}

// Compute returns a transaction's total mass: the traditional compute mass
// (byte size, script bytes, sig-ops) plus, once the storage-mass fork is
// active, the storage-mass term
func Compute(tx *externalapi.DomainTransaction, params *Parameters) uint64 {
	computeMass := ComputeMass(tx, params)
	if !params.StorageMassActivated {
		return computeMass
	}
	return computeMass + StorageMass(tx, params.StorageMassParameter)
}

// ComputeMass returns the traditional size/script/sig-op mass term, with no
// storage-mass component
func ComputeMass(tx *externalapi.DomainTransaction, params *Parameters) uint64 {
	size := TransactionSize(tx)

	var scriptPubKeyBytes uint64
	for _, output := range tx.Outputs {
		scriptPubKeyBytes += uint64(len(output.ScriptPublicKey))
	}

	var sigOps uint64
	for _, input := range tx.Inputs {
		sigOps += uint64(input.SigOpCount)
	}

	return params.MassPerTxByte*size +
		params.MassPerScriptPubKeyByte*scriptPubKeyBytes +
		params.MassPerSigOp*sigOps
}

// StorageMass implements the KIP-0009 storage-mass term: the difference
// between the harmonic sum of output values and the harmonic sum of input
// values (each output/input "costs" 1/value of UTXO-set storage), scaled by
// storageMassParameter and floored at zero so compounding transactions (more
// value concentrated per output than per input) are never penalized.
//
// A coinbase transaction has no real inputs to weigh against, so it carries
// no storage mass.
func StorageMass(tx *externalapi.DomainTransaction, storageMassParameter uint64) uint64 {
	if tx.IsCoinbase() || len(tx.Inputs) == 0 {
		return 0
	}

	outputSum := harmonicSum(outputValues(tx))
	inputSum := harmonicSum(inputValues(tx))

	if outputSum <= inputSum {
		return 0
	}

	return uint64((outputSum - inputSum) * float64(storageMassParameter))
}

func outputValues(tx *externalapi.DomainTransaction) []uint64 {
	values := make([]uint64, len(tx.Outputs))
	for i, output := range tx.Outputs {
		values[i] = output.Value
	}
	return values
}

func inputValues(tx *externalapi.DomainTransaction) []uint64 {
	values := make([]uint64, 0, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if input.UTXOEntry == nil {
			continue
		}
		values = append(values, input.UTXOEntry.Amount)
	}
	return values
}

// harmonicSum returns Σ(1/value) over every non-zero value. A zero-value
// entry contributes no information to the storage-mass comparison and would
// otherwise divide by zero, so it's skipped.
func harmonicSum(values []uint64) float64 {
	var sum float64
	for _, value := range values {
		if value == 0 {
			continue
		}
		sum += 1 / float64(value)
	}
	return sum
}

// TransactionSize estimates a transaction's serialized byte size, following
// the same field layout consensushashing.writeTransaction canonicalizes:
// fixed-width fields plus the actual length of every variable-length one.
func TransactionSize(tx *externalapi.DomainTransaction) uint64 {
	const (
		versionSize      = 2
		countSize        = 8
		outpointSize     = externalapi.DomainHashSize + 4
		sequenceSize     = 8
		valueSize        = 8
		lockTimeSize     = 8
		subnetworkIDSize = externalapi.DomainSubnetworkIDSize
		gasSize          = 8
		payloadHashSize  = externalapi.DomainHashSize
	)

	size := uint64(versionSize + countSize)
	for _, input := range tx.Inputs {
		size += outpointSize + countSize + uint64(len(input.SignatureScript)) + sequenceSize
	}

	size += countSize
	for _, output := range tx.Outputs {
		size += valueSize + countSize + uint64(len(output.ScriptPublicKey))
	}

	size += lockTimeSize + subnetworkIDSize + gasSize + payloadHashSize + countSize + uint64(len(tx.Payload))
	return size
}
