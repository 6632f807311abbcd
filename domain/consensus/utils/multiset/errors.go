package multiset

import "github.com/pkg/errors"

func errInvalidSerializedMultisetLength(got int) error {
	return errors.Errorf("invalid serialized multiset length: got %d bytes", got)
}
