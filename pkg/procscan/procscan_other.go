//go:build !linux

package procscan

import "errors"

// ErrUnsupported is returned by the stub Enumerator on platforms other
// than Linux; callers are expected to supply their own Enumerator
// there. Linux is the one reference implementation this module carries.
var ErrUnsupported = errors.New("procscan: no enumerator implemented for this platform")

// UnsupportedEnumerator always fails. Callers on non-Linux platforms
// are expected to supply their own Enumerator satisfying the contract.
type UnsupportedEnumerator struct{}

// NewLinuxEnumerator is a misnomer-preserving stub so callers can use
// the same constructor name across platforms; it returns an Enumerator
// that always fails.
func NewLinuxEnumerator() *UnsupportedEnumerator { return &UnsupportedEnumerator{} }

// List always returns ErrUnsupported.
func (UnsupportedEnumerator) List() ([]ProcessInfo, error) {
	return nil, ErrUnsupported
}
