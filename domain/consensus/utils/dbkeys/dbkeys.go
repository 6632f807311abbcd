package dbkeys

import "bytes"

var bucketSeparator = byte(0)

// DBBucket is a prefix bucket that namespaces keys belonging to the same
// logical column family within the single underlying KV store.
type DBBucket struct {
	path []byte
}

// MakeBucket creates a new DBBucket using the given path of bucket names
func MakeBucket(buckets ...[]byte) *DBBucket {
	path := make([]byte, 0)
	for _, bucket := range buckets {
		path = append(path, bucket...)
		path = append(path, bucketSeparator)
	}
	return &DBBucket{path: path}
}

// Bucket returns a new, nested DBBucket
func (b *DBBucket) Bucket(bucketBytes []byte) *DBBucket {
	newPath := make([]byte, len(b.path))
	copy(newPath, b.path)
	newPath = append(newPath, bucketBytes...)
	newPath = append(newPath, bucketSeparator)
	return &DBBucket{path: newPath}
}

// Key builds a full DBKey by appending a suffix to this bucket's path
type DBKey struct {
	bytes []byte
}

// Key builds a DBKey from this bucket and the given suffix
func (b *DBBucket) Key(suffix []byte) *DBKey {
	key := make([]byte, 0, len(b.path)+len(suffix))
	key = append(key, b.path...)
	key = append(key, suffix...)
	return &DBKey{bytes: key}
}

// Bytes returns the raw bytes backing this key
func (k *DBKey) Bytes() []byte {
	return k.bytes
}

// Path returns the raw bytes backing this bucket
func (b *DBBucket) Path() []byte {
	return b.path
}

// HasPrefix returns whether the key begins with the given bucket's path
func (k *DBKey) HasPrefix(b *DBBucket) bool {
	return bytes.HasPrefix(k.bytes, b.path)
}

// Suffix returns the part of the key after the given bucket's path
func (k *DBKey) Suffix(b *DBBucket) []byte {
	return k.bytes[len(b.path):]
}
