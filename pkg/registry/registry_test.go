package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEnforcesLimit(t *testing.T) {
	r := New(1)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	err := r.Add("b", Entry{ProcessName: "redis", Status: StatusRunning})
	assert.Equal(t, ErrLimit, err)
	assert.Equal(t, 1, r.Len())
}

func TestAddRejectsCaseInsensitiveDuplicateProcess(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	err := r.Add("b", Entry{ProcessName: "NGINX", Status: StatusRunning})
	assert.Equal(t, ErrDuplicateProcess, err)
}

func TestAddRejectsCaseInsensitiveDuplicateID(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("worker", Entry{ProcessName: "nginx", Status: StatusRunning}))
	err := r.Add("WORKER", Entry{ProcessName: "redis", Status: StatusRunning})
	assert.Equal(t, ErrDuplicateID, err)
}

func TestAddChecksProcessBeforeID(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("worker", Entry{ProcessName: "nginx", Status: StatusRunning}))
	err := r.Add("worker", Entry{ProcessName: "nginx", Status: StatusRunning})
	assert.Equal(t, ErrDuplicateProcess, err)
}

func TestUpdateMatchesCaseInsensitively(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", PID: 1, Status: StatusRunning}))

	newPID := 2
	ok := r.Update("NGINX", &newPID, StatusRunning)
	assert.True(t, ok)

	snap := r.Snapshot()
	assert.Equal(t, 2, snap["a"].PID)
}

func TestUpdateWithNilPIDLeavesPIDUnchanged(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", PID: 7, Status: StatusRunning}))

	ok := r.Update("nginx", nil, StatusStopped)
	assert.True(t, ok)

	snap := r.Snapshot()
	assert.Equal(t, 7, snap["a"].PID)
	assert.Equal(t, StatusStopped, snap["a"].Status)
}

func TestUpdateUnknownProcessReturnsFalse(t *testing.T) {
	r := New(10)
	assert.False(t, r.Update("ghost", nil, StatusStopped))
}

func TestRemoveReturnsEntryAndDeletes(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))

	e, ok := r.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, "nginx", e.ProcessName)
	assert.Equal(t, 0, r.Len())

	_, ok = r.Remove("a")
	assert.False(t, ok)
}

func TestRenameIsCaseSensitiveOnConflict(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	require.NoError(t, r.Add("B", Entry{ProcessName: "redis", Status: StatusRunning}))

	err := r.Rename("a", "b")
	assert.NoError(t, err, "rename conflict check is case-sensitive, so \"b\" does not collide with \"B\"")

	snap := r.Snapshot()
	_, hasOldID := snap["a"]
	assert.False(t, hasOldID)
	assert.Equal(t, "nginx", snap["b"].ProcessName)
}

func TestRenameConflictSameCase(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	require.NoError(t, r.Add("b", Entry{ProcessName: "redis", Status: StatusRunning}))

	err := r.Rename("a", "b")
	assert.Equal(t, ErrDuplicate, err)
}

func TestRenameUnknownSourceReturnsNotFound(t *testing.T) {
	r := New(10)
	err := r.Rename("ghost", "new")
	assert.Equal(t, ErrNotFound, err)
}

func TestCounts(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	require.NoError(t, r.Add("b", Entry{ProcessName: "redis", Status: StatusStopped}))

	running, stopped := r.Counts()
	assert.Equal(t, 1, running)
	assert.Equal(t, 1, stopped)
}

func TestDrainAllSnapshotsAndClears(t *testing.T) {
	r := New(10)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	require.NoError(t, r.Add("b", Entry{ProcessName: "redis", Status: StatusRunning}))

	drained := r.DrainAll()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, r.Len())

	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	assert.Equal(t, 1, r.Len())
}

func TestSetLimitDoesNotEvictExisting(t *testing.T) {
	r := New(5)
	require.NoError(t, r.Add("a", Entry{ProcessName: "nginx", Status: StatusRunning}))
	require.NoError(t, r.Add("b", Entry{ProcessName: "redis", Status: StatusRunning}))

	r.SetLimit(1)
	assert.Equal(t, 2, r.Len())

	err := r.Add("c", Entry{ProcessName: "memcached", Status: StatusRunning})
	assert.Equal(t, ErrLimit, err)
}
