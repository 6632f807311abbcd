package externalapi

import "github.com/pkg/errors"

func errHashSize(got int) error {
	return errors.Errorf("invalid hash size: expected %d bytes, got %d", DomainHashSize, got)
}
