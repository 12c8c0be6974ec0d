package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7ched7/trakd/pkg/procscan"
)

type fakeEnumerator struct {
	procs []procscan.ProcessInfo
	err   error
}

func (f fakeEnumerator) List() ([]procscan.ProcessInfo, error) { return f.procs, f.err }

func TestResolveTargetByName(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 100, Name: "trakd", Exe: "/usr/bin/trakd"},
		{PID: 200, Name: "nginx", Exe: "/usr/sbin/nginx"},
	}}

	info, err := resolveTarget(enum, "nginx", 100, "trakd")
	require.NoError(t, err)
	assert.Equal(t, 200, info.PID)
}

func TestResolveTargetByPID(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 200, Name: "nginx"},
	}}

	info, err := resolveTarget(enum, "200", 100, "trakd")
	require.NoError(t, err)
	assert.Equal(t, "nginx", info.Name)
}

func TestResolveTargetExcludesSelfByPID(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 100, Name: "tracker-runner"},
	}}

	_, err := resolveTarget(enum, "100", 100, "trakd")
	assert.ErrorIs(t, err, ErrSelfTracking)
}

func TestResolveTargetExcludesDaemonBinary(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 300, Name: "trakd", Exe: "/usr/bin/trakd"},
	}}

	_, err := resolveTarget(enum, "trakd", 100, "trakd")
	assert.ErrorIs(t, err, ErrSelfTracking)
}

func TestResolveTargetNotFound(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 300, Name: "mysqld"},
	}}

	_, err := resolveTarget(enum, "nginx", 100, "trakd")
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestMatchByNameSkipsSelfAndDaemon(t *testing.T) {
	enum := fakeEnumerator{procs: []procscan.ProcessInfo{
		{PID: 100, Name: "nginx"},
		{PID: 200, Name: "nginx", Exe: "/usr/bin/trakd"},
	}}

	info, ok, err := matchByName(enum, "nginx", 100, "trakd")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, info.PID)
}

func TestMatchByNameAbsent(t *testing.T) {
	enum := fakeEnumerator{procs: nil}

	_, ok, err := matchByName(enum, "nginx", 100, "trakd")
	require.NoError(t, err)
	assert.False(t, ok)
}
