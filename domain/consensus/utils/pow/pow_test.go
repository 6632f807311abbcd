package pow

import (
	"math/big"
	"testing"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/hashes"
)

func testHeader() *externalapi.DomainBlockHeader {
	return &externalapi.DomainBlockHeader{
		Version:              1,
		ParentsByLevel:       [][]*externalapi.DomainHash{{&externalapi.DomainHash{1, 2, 3}}},
		HashMerkleRoot:       externalapi.DomainHash{4, 5, 6},
		AcceptedIDMerkleRoot: externalapi.DomainHash{7, 8, 9},
		UTXOCommitment:       externalapi.DomainHash{10, 11, 12},
		TimeInMilliseconds:   1000000,
		Bits:                 0x207fffff,
		DAAScore:             1,
		BlueWork:             big.NewInt(1),
		BlueScore:            1,
	}
}

func TestHashIsDeterministic(t *testing.T) {
	header := testHeader()
	a := Hash(header, 42)
	b := Hash(header, 42)
	if !a.Equal(b) {
		t.Fatalf("Hash is not a pure function of header bytes and nonce: %s != %s", a, b)
	}
}

func TestHashVariesWithNonce(t *testing.T) {
	header := testHeader()
	a := Hash(header, 1)
	b := Hash(header, 2)
	if a.Equal(b) {
		t.Fatalf("Hash did not change when the nonce changed")
	}
}

func TestRoundCountIndependentOfNonce(t *testing.T) {
	header := testHeader()

	rounds := RoundCount(header)
	if rounds < minRounds || rounds >= maxRoundsExclusive {
		t.Fatalf("round count %d out of range [%d, %d)", rounds, minRounds, maxRoundsExclusive)
	}

	for _, nonce := range []uint64{0, 1, 42, 1 << 40} {
		header.Nonce = nonce
		if got := RoundCount(header); got != rounds {
			t.Fatalf("round count changed with nonce %d: got %d, want %d", nonce, got, rounds)
		}
	}
}

func TestProofOfWorkAcceptsAtTargetAndRejectsBelowIt(t *testing.T) {
	header := testHeader()
	header.Nonce = 7

	powHash := Hash(header, header.Nonce)
	target := hashes.ToBig(powHash)
	if target.Sign() == 0 {
		t.Skip("hash happened to be zero, degenerate for this test")
	}

	if !CheckProofOfWorkWithTarget(header, target) {
		t.Fatal("expected the header's own PoW hash to be accepted against its own value as target")
	}

	belowTarget := new(big.Int).Sub(target, big.NewInt(1))
	if CheckProofOfWorkWithTarget(header, belowTarget) {
		t.Fatal("expected a strictly smaller target to reject the same header/nonce pair")
	}
}

func TestCheckProofOfWorkWithTargetRejectsNonPositiveTarget(t *testing.T) {
	header := testHeader()
	if CheckProofOfWorkWithTarget(header, big.NewInt(0)) {
		t.Fatal("expected a non-positive target to always reject")
	}
}

func TestCheckProofOfWorkWithTargetAcceptsMaximalTarget(t *testing.T) {
	header := testHeader()
	header.Nonce = 7

	// a target of 2^256-1 can never be exceeded by a 256-bit hash
	maxTarget := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	if !CheckProofOfWorkWithTarget(header, maxTarget) {
		t.Fatal("expected the maximal target to always accept")
	}
}

func TestCheckProofOfWorkWithTargetRejectsMinimalTarget(t *testing.T) {
	header := testHeader()
	header.Nonce = 7

	if CheckProofOfWorkWithTarget(header, big.NewInt(1)) {
		t.Fatal("expected a target of 1 to reject an arbitrary header/nonce pair")
	}
}

func TestBlockLevelFloorsAtZero(t *testing.T) {
	hash := &externalapi.DomainHash{}
	for i := range hash {
		hash[i] = 0xff
	}
	if level := BlockLevel(hash, 8); level != 0 {
		t.Fatalf("expected a near-maximal hash to floor at level 0, got %d", level)
	}
}
