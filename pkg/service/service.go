// Package service manages the broker's optional systemd unit
// ("trakd server {install|remove|enable|disable}").
// It is a thin wrapper around systemctl and a unit-file template;
// platforms without systemd report ErrUnsupported rather than
// attempting anything.
package service

import "errors"

// ErrUnsupported is returned on platforms with no systemd integration.
var ErrUnsupported = errors.New("service: systemd management is not available on this platform")

// UnitName is the installed unit's file name.
const UnitName = "trakd.service"

// Manager installs, removes, enables and disables the broker's service
// unit.
type Manager interface {
	Install(execPath string) error
	Remove() error
	Enable() error
	Disable() error
}
