package database

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/syndtr/goleveldb/leveldb"
)

// transaction is a model.DBTransaction backed by a goleveldb *leveldb.Transaction
type transaction struct {
	ldbTx *leveldb.Transaction
}

func newTransaction(ldbTx *leveldb.Transaction) *transaction {
	return &transaction{ldbTx: ldbTx}
}

// Get gets the value for the given key as staged within this transaction
func (tx *transaction) Get(key *model.DBKey) ([]byte, error) {
	return tx.ldbTx.Get(key.Bytes(), nil)
}

// Has returns whether the given key exists as staged within this transaction
func (tx *transaction) Has(key *model.DBKey) (bool, error) {
	return tx.ldbTx.Has(key.Bytes(), nil)
}

// Put stages a write of value for the given key within this transaction
func (tx *transaction) Put(key *model.DBKey, value []byte) error {
	return tx.ldbTx.Put(key.Bytes(), value, nil)
}

// Delete stages a deletion of the given key within this transaction
func (tx *transaction) Delete(key *model.DBKey) error {
	return tx.ldbTx.Delete(key.Bytes(), nil)
}

// Cursor opens a cursor over every key within the given bucket, as staged
// within this transaction
func (tx *transaction) Cursor(bucket *model.DBBucket) (model.DBCursor, error) {
	return newTransactionCursor(tx.ldbTx, bucket), nil
}

// Commit atomically applies every write staged within this transaction
func (tx *transaction) Commit() error {
	return tx.ldbTx.Commit()
}

// Rollback discards every write staged within this transaction
func (tx *transaction) Rollback() error {
	tx.ldbTx.Discard()
	return nil
}
