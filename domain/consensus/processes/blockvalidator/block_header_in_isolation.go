package blockvalidator

import (
	"fmt"
	"sort"
	"time"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
	"github.com/kaspanet/kaspad/domain/consensus/utils/math"
	"github.com/kaspanet/kaspad/domain/consensus/utils/pow"
	)

// ValidateHeaderInIsolation validates a header against the rules that don't
// depend on the rest of the DAG: version, parent count and order, timestamp
// drift, and proof of work against the header's own claimed target
func (v *blockValidator) ValidateHeaderInIsolation(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	header, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkBlockVersion(header)
	if err != nil {
		return err
	}

	err = v.checkParentsLimit(blockHash, header)
	if err != nil {
		return err
	}

	err = checkBlockParentsOrdered(header)
	if err != nil {
		return err
	}

	err = v.checkTimestampInIsolation(header)
	if err != nil {
		return err
	}

	err = v.checkProofOfWork(header)
	if err != nil {
		return err
	}

	return nil
}

func (v *blockValidator) checkBlockVersion(header *externalapi.DomainBlockHeader) error {
	if header.Version != v.blockVersion {
		return ruleerrors.NewRuleError(ruleerrors.ErrWrongBlockVersion,
			fmt.Sprintf("block version of %d is not the expected version of %d", header.Version, v.blockVersion))
	}
	return nil
}

func (v *blockValidator) checkParentsLimit(blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error {
	parents := header.Parents()
	if len(parents) == 0 && !blockHash.Equal(v.genesisHash) {
		return ruleerrors.NewRuleError(ruleerrors.ErrNoParents, "block has no parents")
	}

	if len(parents) > v.maxBlockParents {
		return ruleerrors.NewRuleError(ruleerrors.ErrTooManyParents,
			fmt.Sprintf("block header has %d parents, but the maximum allowed amount is %d", len(parents), v.maxBlockParents))
	}
	return nil
}

// checkBlockParentsOrdered ensures a header's level-0 parents are sorted by
// hash, the canonical order GHOSTDAG's mergeset-ordering and hashing both
// assume
func checkBlockParentsOrdered(header *externalapi.DomainBlockHeader) error {
	parents := header.Parents()
	isSorted := sort.SliceIsSorted(parents, func(i, j int) bool {
		return externalapi.Less(parents[i], parents[j])
	})
	if !isSorted {
		return ruleerrors.NewRuleError(ruleerrors.ErrInvalidParentsRelation, "block parents are not ordered by hash")
	}
	return nil
}

func (v *blockValidator) checkTimestampInIsolation(header *externalapi.DomainBlockHeader) error {
	maxTimestamp := time.Now().UnixMilli() + v.timestampDeviationToleranceMillis
	if header.TimeInMilliseconds > maxTimestamp {
		return ruleerrors.NewRuleError(ruleerrors.ErrTimeTooFarIntoTheFuture,
			fmt.Sprintf("block timestamp of %d is too far in the future: latest allowed is %d", header.TimeInMilliseconds, maxTimestamp))
	}
	return nil
}

// checkProofOfWork ensures the header's claimed target is within range and,
// unless skipPoW is set (used by test harnesses), that the header's PoW hash
// actually satisfies it
func (v *blockValidator) checkProofOfWork(header *externalapi.DomainBlockHeader) error {
	target := math.CompactToBig(header.Bits)
	if target.Sign() <= 0 {
		return ruleerrors.NewRuleError(ruleerrors.ErrBadProofOfWork,
			fmt.Sprintf("block target difficulty of %064x is too low", target))
	}

	if target.Cmp(v.powMax) > 0 {
		return ruleerrors.NewRuleError(ruleerrors.ErrBadProofOfWork,
			fmt.Sprintf("block target difficulty of %064x is higher than max of %064x", target, v.powMax))
	}

	if !v.skipPoW && !pow.CheckProofOfWorkWithTarget(header, target) {
		return ruleerrors.NewRuleError(ruleerrors.ErrBadProofOfWork, "block has invalid proof of work")
	}
	return nil
}
