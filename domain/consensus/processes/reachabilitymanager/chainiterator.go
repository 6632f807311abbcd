package reachabilitymanager

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// backwardChainIterator walks up the reachability tree from a descendant to
// a known ancestor, one tree-parent hop at a time.
type backwardChainIterator struct {
	rt          *reachabilityManager
	stagingArea *model.StagingArea
	current     *externalapi.DomainHash
	toAncestor  *externalapi.DomainHash
	done        bool
}

func (it *backwardChainIterator) Next() (*externalapi.DomainHash, bool, error) {
	if it.done {
		return nil, false, nil
	}

	result := it.current
	if it.current.Equal(it.toAncestor) {
		it.done = true
		return result, true, nil
	}

	data, err := it.rt.reachabilityDataStore.ReachabilityData(it.rt.databaseContext, it.stagingArea, it.current)
	if err != nil {
		return nil, false, err
	}
	if data.TreeNode.Parent == nil {
		return nil, false, errors.Errorf("reached the reachability tree root without passing through the requested ancestor")
	}

	it.current = data.TreeNode.Parent
	return result, true, nil
}

// BackwardChainIterator returns a ChainIterator that walks from fromDescendant
// up to toAncestor along the selected-parent tree, yielding fromDescendant
// first and toAncestor last.
func (rt *reachabilityManager) BackwardChainIterator(
	stagingArea *model.StagingArea, fromDescendant, toAncestor *externalapi.DomainHash) (model.ChainIterator, error) {

	isAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, toAncestor, fromDescendant)
	if err != nil {
		return nil, err
	}
	if !isAncestor {
		return nil, errors.Errorf("%s is not a tree-ancestor of %s", toAncestor, fromDescendant)
	}

	return &backwardChainIterator{
		rt:          rt,
		stagingArea: stagingArea,
		current:     fromDescendant,
		toAncestor:  toAncestor,
	}, nil
}

// forwardChainIterator walks down the reachability tree from a known ancestor
// to a descendant, choosing at each step the child whose interval contains
// the target descendant's interval.
type forwardChainIterator struct {
	rt                   *reachabilityManager
	stagingArea          *model.StagingArea
	current              *externalapi.DomainHash
	toDescendant         *externalapi.DomainHash
	toDescendantInterval *model.ReachabilityInterval
	done                 bool
}

func (it *forwardChainIterator) Next() (*externalapi.DomainHash, bool, error) {
	if it.done {
		return nil, false, nil
	}

	result := it.current
	if it.current.Equal(it.toDescendant) {
		it.done = true
		return result, true, nil
	}

	data, err := it.rt.reachabilityDataStore.ReachabilityData(it.rt.databaseContext, it.stagingArea, it.current)
	if err != nil {
		return nil, false, err
	}

	for _, child := range data.TreeNode.Children {
		childData, err := it.rt.reachabilityDataStore.ReachabilityData(it.rt.databaseContext, it.stagingArea, child)
		if err != nil {
			return nil, false, err
		}
		if childData.TreeNode.Interval.Contains(it.toDescendantInterval) {
			it.current = child
			return result, true, nil
		}
	}

	return nil, false, errors.Errorf("%s is not a tree-descendant of %s", it.toDescendant, result)
}

// ForwardChainIterator returns a ChainIterator that walks from fromAncestor
// down to toDescendant along the selected-parent tree, yielding fromAncestor
// first and toDescendant last.
func (rt *reachabilityManager) ForwardChainIterator(
	stagingArea *model.StagingArea, fromAncestor, toDescendant *externalapi.DomainHash) (model.ChainIterator, error) {

	descendantData, err := rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, toDescendant)
	if err != nil {
		return nil, err
	}

	isAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, fromAncestor, toDescendant)
	if err != nil {
		return nil, err
	}
	if !isAncestor {
		return nil, errors.Errorf("%s is not a tree-ancestor of %s", fromAncestor, toDescendant)
	}

	return &forwardChainIterator{
		rt:                   rt,
		stagingArea:          stagingArea,
		current:              fromAncestor,
		toDescendant:         toDescendant,
		toDescendantInterval: descendantData.TreeNode.Interval,
	}, nil
}
