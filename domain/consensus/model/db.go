package model

import "github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"

// DBKey is an alias kept for readability at call sites
type DBKey = dbkeys.DBKey

// DBBucket is an alias kept for readability at call sites
type DBBucket = dbkeys.DBBucket

// DBCursor iterates over database entries within some bucket
type DBCursor interface {
	Next() bool
	Key() (*DBKey, error)
	Value() ([]byte, error)
	Close() error
}

// DBReader reads from the database, either directly or inside a transaction
type DBReader interface {
	Get(key *DBKey) ([]byte, error)
	Has(key *DBKey) (bool, error)
	Cursor(bucket *DBBucket) (DBCursor, error)
}

// DBWriter writes to the database, either directly or inside a transaction
type DBWriter interface {
	DBReader
	Put(key *DBKey, value []byte) error
	Delete(key *DBKey) error
}

// DBTransaction is a writer that is committed or rolled back atomically
type DBTransaction interface {
	DBWriter
	Rollback() error
	Commit() error
}

// DBManager is the root handle to the consensus' underlying key/value store,
// one column-family bucket per store as described in the persisted-state layout
type DBManager interface {
	DBWriter
	Begin() (DBTransaction, error)
	Close() error
}
