// Package pruningstore persists the current pruning point and the proof that
// justifies it to a peer syncing from scratch.
package pruningstore

import (
	"bytes"
	"encoding/gob"
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
)

var pruningPointKey = dbkeys.MakeBucket().Key([]byte("pruning-point"))
var pruningPointProofKey = dbkeys.MakeBucket().Key([]byte("pruning-point-proof"))

// pruningStore represents a store for the current pruning point and its proof
type pruningStore struct {
	pruningPointCache      *externalapi.DomainHash
	pruningPointProofCache *model.PruningPointProof
}

// New instantiates a new PruningStore
func New() model.PruningStore {
	return &pruningStore{}
}

type pruningStagingShard struct {
	store              *pruningStore
	newPruningPoint    *externalapi.DomainHash
	newPruningProof    *model.PruningPointProof
	pruningPointStaged bool
	proofStaged        bool
}

func (ps *pruningStore) stagingShard(stagingArea *model.StagingArea) *pruningStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDPruning, func() model.StagingShard {
		return &pruningStagingShard{store: ps}
	}).(*pruningStagingShard)
}

func (pss *pruningStagingShard) Commit(dbTx model.DBTransaction) error {
	if pss.pruningPointStaged {
		if err := dbTx.Put(pruningPointKey, pss.newPruningPoint[:]); err != nil {
			return err
		}
		pss.store.pruningPointCache = pss.newPruningPoint
	}

	if pss.proofStaged {
		proofBytes, err := serializePruningPointProof(pss.newPruningProof)
		if err != nil {
			return err
		}
		if err := dbTx.Put(pruningPointProofKey, proofBytes); err != nil {
			return err
		}
		pss.store.pruningPointProofCache = pss.newPruningProof
	}

	return nil
}

// StagePruningPoint stages the given block hash as the new pruning point
func (ps *pruningStore) StagePruningPoint(stagingArea *model.StagingArea, pruningPointHash *externalapi.DomainHash) {
	stagingShard := ps.stagingShard(stagingArea)
	stagingShard.pruningPointStaged = true
	stagingShard.newPruningPoint = pruningPointHash
}

// PruningPoint gets the current pruning point
func (ps *pruningStore) PruningPoint(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	stagingShard := ps.stagingShard(stagingArea)
	if stagingShard.pruningPointStaged {
		return stagingShard.newPruningPoint, nil
	}

	if ps.pruningPointCache != nil {
		return ps.pruningPointCache, nil
	}

	pruningPointBytes, err := dbContext.Get(pruningPointKey)
	if err != nil {
		return nil, err
	}
	pruningPoint, err := externalapi.NewDomainHashFromByteSlice(pruningPointBytes)
	if err != nil {
		return nil, err
	}
	ps.pruningPointCache = pruningPoint
	return pruningPoint, nil
}

// StagePruningPointProof stages the given proof as the proof for the current pruning point
func (ps *pruningStore) StagePruningPointProof(stagingArea *model.StagingArea, proof *model.PruningPointProof) {
	stagingShard := ps.stagingShard(stagingArea)
	stagingShard.proofStaged = true
	stagingShard.newPruningProof = proof
}

// PruningPointProof gets the proof for the current pruning point
func (ps *pruningStore) PruningPointProof(dbContext model.DBReader, stagingArea *model.StagingArea) (*model.PruningPointProof, error) {
	stagingShard := ps.stagingShard(stagingArea)
	if stagingShard.proofStaged {
		return stagingShard.newPruningProof, nil
	}

	if ps.pruningPointProofCache != nil {
		return ps.pruningPointProofCache, nil
	}

	proofBytes, err := dbContext.Get(pruningPointProofKey)
	if err != nil {
		return nil, err
	}
	proof, err := deserializePruningPointProof(proofBytes)
	if err != nil {
		return nil, err
	}
	ps.pruningPointProofCache = proof
	return proof, nil
}

func (ps *pruningStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := ps.stagingShard(stagingArea)
	return stagingShard.pruningPointStaged || stagingShard.proofStaged
}

type serializableBlockHeader struct {
	Version              uint16
	ParentsByLevel       [][]externalapi.DomainHash
	HashMerkleRoot       externalapi.DomainHash
	AcceptedIDMerkleRoot externalapi.DomainHash
	UTXOCommitment       externalapi.DomainHash
	TimeInMilliseconds   int64
	Bits                 uint32
	Nonce                uint64
	DAAScore             uint64
	BlueWorkBytes        []byte
	BlueScore            uint64
	PruningPoint         externalapi.DomainHash
}

func headerToSerializable(header *externalapi.DomainBlockHeader) serializableBlockHeader {
	s := serializableBlockHeader{
		Version:              header.Version,
		HashMerkleRoot:       header.HashMerkleRoot,
		AcceptedIDMerkleRoot: header.AcceptedIDMerkleRoot,
		UTXOCommitment:       header.UTXOCommitment,
		TimeInMilliseconds:   header.TimeInMilliseconds,
		Bits:                 header.Bits,
		Nonce:                header.Nonce,
		DAAScore:             header.DAAScore,
		BlueScore:            header.BlueScore,
		PruningPoint:         header.PruningPoint,
	}
	if header.BlueWork != nil {
		s.BlueWorkBytes = header.BlueWork.Bytes()
	}
	for _, level := range header.ParentsByLevel {
		hashes := make([]externalapi.DomainHash, len(level))
		for i, h := range level {
			hashes[i] = *h
		}
		s.ParentsByLevel = append(s.ParentsByLevel, hashes)
	}
	return s
}

func serializableToHeader(s serializableBlockHeader) *externalapi.DomainBlockHeader {
	header := &externalapi.DomainBlockHeader{
		Version:              s.Version,
		HashMerkleRoot:       s.HashMerkleRoot,
		AcceptedIDMerkleRoot: s.AcceptedIDMerkleRoot,
		UTXOCommitment:       s.UTXOCommitment,
		TimeInMilliseconds:   s.TimeInMilliseconds,
		Bits:                 s.Bits,
		Nonce:                s.Nonce,
		DAAScore:             s.DAAScore,
		BlueWork:             new(big.Int).SetBytes(s.BlueWorkBytes),
		BlueScore:            s.BlueScore,
		PruningPoint:         s.PruningPoint,
	}
	for _, level := range s.ParentsByLevel {
		hashes := make([]*externalapi.DomainHash, len(level))
		for i := range level {
			h := level[i]
			hashes[i] = &h
		}
		header.ParentsByLevel = append(header.ParentsByLevel, hashes)
	}
	return header
}

func serializePruningPointProof(proof *model.PruningPointProof) ([]byte, error) {
	serializableHeaders := make([][]serializableBlockHeader, len(proof.Headers))
	for level, headers := range proof.Headers {
		serializableHeaders[level] = make([]serializableBlockHeader, len(headers))
		for i, header := range headers {
			serializableHeaders[level][i] = headerToSerializable(header)
		}
	}

	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(serializableHeaders); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializePruningPointProof(proofBytes []byte) (*model.PruningPointProof, error) {
	var serializableHeaders [][]serializableBlockHeader
	if err := gob.NewDecoder(bytes.NewReader(proofBytes)).Decode(&serializableHeaders); err != nil {
		return nil, err
	}

	headers := make([][]*externalapi.DomainBlockHeader, len(serializableHeaders))
	for level, sHeaders := range serializableHeaders {
		headers[level] = make([]*externalapi.DomainBlockHeader, len(sHeaders))
		for i, s := range sHeaders {
			headers[level][i] = serializableToHeader(s)
		}
	}
	return &model.PruningPointProof{Headers: headers}, nil
}
