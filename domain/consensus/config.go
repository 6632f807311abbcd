package consensus

import (
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/mass"
)

// Config carries every per-network tunable the consensus processes need.
// It plays the role the teacher's dagconfig.Params played, trimmed down to
// externalapi-typed fields so it doesn't drag in the legacy appmessage/daghash
// wire types dagconfig.Params is still built on.
type Config struct {
	GenesisBlock *externalapi.DomainBlock

	K                                 model.KType
	BlockVersion                      uint16
	PowMax                            *big.Int
	SkipProofOfWork                   bool
	MaxBlockParents                   int
	MergeSetSizeLimit                 uint64
	TimestampDeviationToleranceMillis int64

	DifficultyWindowSize           int
	SampledDifficultyWindowSize    int
	DifficultySampleRate           int
	SampledDAAScoreActivation      uint64
	TargetTimePerBlockMillis       int64

	SubsidyReductionInterval uint64
	CoinbaseMaturity         uint64
	MaxTransactionValue      uint64

	MassParameters         *mass.Parameters
	MaxBlockMass           uint64
	MassInMerkleRootActive bool
	PayloadActivationActive bool

	FinalityInterval uint64
	PruningDepth     uint64

	StoreCacheSize int
}
