package blockvalidator

import (
	"fmt"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/ruleerrors"
)

// ValidateBodyInContext validates a block's body against the rules that
// depend on the rest of the DAG: every parent's body must already be known
// (header persistence happens-before body persistence happens-before virtual
// contribution, so a body can't be accepted ahead of a parent's)
func (v *blockValidator) ValidateBodyInContext(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	header, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	for _, parent := range header.Parents() {
		status, err := v.blockStatusStore.Get(v.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		if !status.HasBlock() {
			return ruleerrors.NewRuleError(ruleerrors.ErrMissingParents,
				fmt.Sprintf("parent %s's body has not been validated yet (status %s)", parent, status))
		}
	}

	return nil
}
