package database

import (
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type cursor struct {
	bucket   *model.DBBucket
	iterator iterator.Iterator
	closed   bool
}

func newCursor(ldb *leveldb.DB, bucket *model.DBBucket) *cursor {
	iter := ldb.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &cursor{bucket: bucket, iterator: iter}
}

func newTransactionCursor(ldbTx *leveldb.Transaction, bucket *model.DBBucket) *cursor {
	iter := ldbTx.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &cursor{bucket: bucket, iterator: iter}
}

// Next advances the cursor to the next key within its bucket
func (c *cursor) Next() bool {
	if c.closed {
		return false
	}
	return c.iterator.Next()
}

// Key returns the full key the cursor currently points at
func (c *cursor) Key() (*model.DBKey, error) {
	if c.closed {
		return nil, errors.New("cannot read from a closed cursor")
	}
	rawKey := c.iterator.Key()
	suffix := rawKey[len(c.bucket.Path()):]
	return c.bucket.Key(suffix), nil
}

// Value returns the value the cursor currently points at
func (c *cursor) Value() ([]byte, error) {
	if c.closed {
		return nil, errors.New("cannot read from a closed cursor")
	}
	value := c.iterator.Value()
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, nil
}

// Close releases the cursor's underlying iterator
func (c *cursor) Close() error {
	c.iterator.Release()
	c.closed = true
	return c.iterator.Error()
}
