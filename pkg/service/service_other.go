//go:build !linux

package service

type unsupportedManager struct{}

// New returns a Manager that reports ErrUnsupported for every
// operation on platforms without systemd.
func New() Manager { return unsupportedManager{} }

func (unsupportedManager) Install(execPath string) error { return ErrUnsupported }
func (unsupportedManager) Remove() error                 { return ErrUnsupported }
func (unsupportedManager) Enable() error                 { return ErrUnsupported }
func (unsupportedManager) Disable() error                { return ErrUnsupported }
