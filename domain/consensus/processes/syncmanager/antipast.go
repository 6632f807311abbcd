package syncmanager

import (
	"sort"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// GetHashesBetween collects every block in highHash's past (including
// itself) that is not also in lowHash's past, ordered by ascending blue
// score, capped so the chain walked never spans more than
// maxBlueScoreDifference blue score from lowHash.
func (sm *syncManager) GetHashesBetween(stagingArea *model.StagingArea, lowHash, highHash *externalapi.DomainHash,
	maxBlueScoreDifference uint64) ([]*externalapi.DomainHash, error) {

	lowGHOSTDAGData, err := sm.ghostdagDataStore.Get(sm.databaseContext, stagingArea, lowHash)
	if err != nil {
		return nil, err
	}
	highGHOSTDAGData, err := sm.ghostdagDataStore.Get(sm.databaseContext, stagingArea, highHash)
	if err != nil {
		return nil, err
	}
	if lowGHOSTDAGData.BlueScore() >= highGHOSTDAGData.BlueScore() {
		return nil, errors.Errorf("low hash blueScore >= high hash blueScore (%d >= %d)",
			lowGHOSTDAGData.BlueScore(), highGHOSTDAGData.BlueScore())
	}

	// Cap how far below highHash we walk by re-pointing highHash at its own
	// selected parent chain until the remaining span fits the requested
	// blue score budget; this mirrors the teacher's blue-score approximation
	// of "who's in range" without assuming every block in between is blue.
	for highGHOSTDAGData.BlueScore()-lowGHOSTDAGData.BlueScore() > maxBlueScoreDifference {
		highHash = highGHOSTDAGData.SelectedParent()
		if highHash == nil {
			break
		}
		highGHOSTDAGData, err = sm.ghostdagDataStore.Get(sm.databaseContext, stagingArea, highHash)
		if err != nil {
			return nil, err
		}
	}

	visited := make(map[externalapi.DomainHash]struct{})
	var result []*externalapi.DomainHash
	queue := []*externalapi.DomainHash{highHash}
	visited[*highHash] = struct{}{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !current.Equal(lowHash) {
			isInLowHashPast, err := sm.dagTopologyManager.IsAncestorOf(stagingArea, current, lowHash)
			if err != nil {
				return nil, err
			}
			if isInLowHashPast {
				continue
			}
		} else {
			continue
		}

		result = append(result, current)

		parents, err := sm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		for _, parent := range parents {
			if _, ok := visited[*parent]; ok {
				continue
			}
			visited[*parent] = struct{}{}
			queue = append(queue, parent)
		}
	}

	blueScores := make(map[externalapi.DomainHash]uint64, len(result))
	for _, hash := range result {
		ghostdagData, err := sm.ghostdagDataStore.Get(sm.databaseContext, stagingArea, hash)
		if err != nil {
			return nil, err
		}
		blueScores[*hash] = ghostdagData.BlueScore()
	}
	sort.Slice(result, func(i, j int) bool {
		return blueScores[*result[i]] < blueScores[*result[j]]
	})

	return result, nil
}
