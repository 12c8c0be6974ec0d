package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRequestRoundTrip(t *testing.T) {
	req := NewAddRequest("worker-1", AddEntry{
		ProcessName: "nginx",
		PID:         42,
		TrackPID:    1,
		StartTime:   "2026-07-30T00:00:00",
		Status:      "running",
	})
	assert.Equal(t, CmdAdd, req.Command())

	data, err := Marshal(req)
	require.NoError(t, err)

	parsed, err := ParseRequest(data)
	require.NoError(t, err)
	assert.Equal(t, CmdAdd, parsed.Command())

	id, entry, ok := parsed.AddPayload()
	require.True(t, ok)
	assert.Equal(t, "worker-1", id)
	assert.Equal(t, "nginx", entry.ProcessName)
	assert.Equal(t, 42, entry.PID)
	assert.Equal(t, 1, entry.TrackPID)
	assert.Equal(t, "running", entry.Status)
}

func TestUpdateRequestRoundTripWithPID(t *testing.T) {
	pid := 99
	req := NewUpdateRequest("nginx", &pid, "running")
	data, err := Marshal(req)
	require.NoError(t, err)

	parsed, err := ParseRequest(data)
	require.NoError(t, err)
	name, gotPID, status, ok := parsed.UpdatePayload()
	require.True(t, ok)
	assert.Equal(t, "nginx", name)
	require.NotNil(t, gotPID)
	assert.Equal(t, 99, *gotPID)
	assert.Equal(t, "running", status)
}

func TestUpdateRequestRoundTripNilPID(t *testing.T) {
	req := NewUpdateRequest("nginx", nil, "stopped")
	data, err := Marshal(req)
	require.NoError(t, err)

	parsed, err := ParseRequest(data)
	require.NoError(t, err)
	name, gotPID, status, ok := parsed.UpdatePayload()
	require.True(t, ok)
	assert.Equal(t, "nginx", name)
	assert.Nil(t, gotPID)
	assert.Equal(t, "stopped", status)
}

func TestRmPayload(t *testing.T) {
	req := NewRmRequest("worker-1")
	assert.Equal(t, CmdRm, req.Command())
	id, ok := req.RmPayload()
	assert.True(t, ok)
	assert.Equal(t, "worker-1", id)
}

func TestRenamePayload(t *testing.T) {
	req := NewRenameRequest("worker-1", "worker-2")
	assert.Equal(t, CmdRename, req.Command())
	id, newID, ok := req.RenamePayload()
	assert.True(t, ok)
	assert.Equal(t, "worker-1", id)
	assert.Equal(t, "worker-2", newID)
}

func TestPsPayload(t *testing.T) {
	req := NewPsRequest(true, false)
	assert.Equal(t, CmdPs, req.Command())
	all, detailed := req.PsPayload()
	assert.True(t, all)
	assert.False(t, detailed)
}

func TestStatusAndStopRequests(t *testing.T) {
	assert.Equal(t, CmdStatus, NewStatusRequest().Command())
	assert.Equal(t, CmdStop, NewStopRequest().Command())
}

func TestParseRequestMalformedJSON(t *testing.T) {
	_, err := ParseRequest([]byte("not json"))
	assert.Error(t, err)
}

func TestAddPayloadAbsentReturnsNotOK(t *testing.T) {
	req := Request{"command": CmdStatus}
	_, _, ok := req.AddPayload()
	assert.False(t, ok)
}
