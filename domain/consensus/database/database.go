// Package database is the concrete, goleveldb-backed implementation of
// model.DBManager: every consensus datastructure store reads and writes
// through this single key/value handle, namespaced by dbkeys.DBBucket
// prefixes.
package database

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is a model.DBManager backed by a goleveldb database
type LevelDB struct {
	ldb *leveldb.DB
}

// New opens (creating if necessary) a LevelDB-backed database at path
func New(path string) (*LevelDB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{ldb: ldb}, nil
}

// Get gets the value for the given key
func (db *LevelDB) Get(key *model.DBKey) ([]byte, error) {
	return db.ldb.Get(key.Bytes(), nil)
}

// Has returns whether the given key exists in the database
func (db *LevelDB) Has(key *model.DBKey) (bool, error) {
	return db.ldb.Has(key.Bytes(), nil)
}

// Put sets the value for the given key, overwriting any previous value
func (db *LevelDB) Put(key *model.DBKey, value []byte) error {
	return db.ldb.Put(key.Bytes(), value, nil)
}

// Delete removes the given key. It is not an error for the key to not exist.
func (db *LevelDB) Delete(key *model.DBKey) error {
	return db.ldb.Delete(key.Bytes(), nil)
}

// Cursor opens a cursor over every key within the given bucket
func (db *LevelDB) Cursor(bucket *model.DBBucket) (model.DBCursor, error) {
	return newCursor(db.ldb, bucket), nil
}

// Begin starts a new atomic transaction over the database
func (db *LevelDB) Begin() (model.DBTransaction, error) {
	ldbTx, err := db.ldb.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return newTransaction(ldbTx), nil
}

// Close closes the database
func (db *LevelDB) Close() error {
	return db.ldb.Close()
}
