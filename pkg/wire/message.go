package wire

import "fmt"

// Request is a JSON request envelope. Every request carries a "command"
// field; some commands (add, update) carry one additional field
// whose key is itself dynamic (a tracking id or a process name), so a
// generic map is used instead of a fixed struct — this is the "tagged
// sum with an explicit default" dispatch shape, just
// modeled as data instead of a Go type switch at the parse layer.
type Request map[string]interface{}

// ParseRequest decodes a single logical message into a Request map.
// Malformed JSON is the caller's responsibility to drop: this
// function only reports the parse error.
func ParseRequest(data []byte) (Request, error) {
	var r Request
	if err := Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Command returns the "command" field, or "" if absent or not a string.
func (r Request) Command() string {
	v, _ := r["command"].(string)
	return v
}

// AddEntry is the registry-entry-shaped payload nested under the
// tracking id key of an "add" request.
type AddEntry struct {
	ProcessName string `json:"process_name"`
	PID         int    `json:"pid"`
	TrackPID    int    `json:"track_pid"`
	StartTime   string `json:"start_time"`
	Status      string `json:"status"`
}

// NewAddRequest builds the wire payload for the "add" command.
func NewAddRequest(id string, entry AddEntry) Request {
	return Request{
		"command": CmdAdd,
		id: map[string]interface{}{
			"process_name": entry.ProcessName,
			"pid":          entry.PID,
			"track_pid":    entry.TrackPID,
			"start_time":   entry.StartTime,
			"status":       entry.Status,
			"conn":         nil,
		},
	}
}

// AddPayload extracts the tracking id and AddEntry from an "add" request.
// ok is false if no such nested object is present.
func (r Request) AddPayload() (id string, entry AddEntry, ok bool) {
	for k, v := range r {
		if k == "command" {
			continue
		}
		obj, isObj := v.(map[string]interface{})
		if !isObj {
			continue
		}
		entry.ProcessName, _ = obj["process_name"].(string)
		entry.PID = toInt(obj["pid"])
		entry.TrackPID = toInt(obj["track_pid"])
		entry.StartTime, _ = obj["start_time"].(string)
		entry.Status, _ = obj["status"].(string)
		return k, entry, true
	}
	return "", AddEntry{}, false
}

// NewUpdateRequest builds the wire payload for the "update" command.
// A nil pid encodes the JSON literal null (process went absent).
func NewUpdateRequest(processName string, pid *int, status string) Request {
	var pidVal interface{}
	if pid != nil {
		pidVal = *pid
	}
	return Request{
		"command":   CmdUpdate,
		"status":    status,
		processName: pidVal,
	}
}

// UpdatePayload extracts the process name, pid (nil if the process went
// absent) and status from an "update" request.
func (r Request) UpdatePayload() (processName string, pid *int, status string, ok bool) {
	status, hasStatus := r["status"].(string)
	if !hasStatus {
		return "", nil, "", false
	}
	for k, v := range r {
		if k == "command" || k == "status" {
			continue
		}
		processName = k
		if v != nil {
			p := toInt(v)
			pid = &p
		}
		return processName, pid, status, true
	}
	return "", nil, "", false
}

// NewRmRequest builds the wire payload for the "rm" command.
func NewRmRequest(id string) Request {
	return Request{"command": CmdRm, "process": id}
}

// RmPayload extracts the target id from an "rm" request.
func (r Request) RmPayload() (id string, ok bool) {
	id, ok = r["process"].(string)
	return id, ok
}

// NewRenameRequest builds the wire payload for the "rename" command.
func NewRenameRequest(id, newID string) Request {
	return Request{"command": CmdRename, "process": id, "new_id": newID}
}

// RenamePayload extracts the source and destination ids from a "rename"
// request.
func (r Request) RenamePayload() (id, newID string, ok bool) {
	id, okID := r["process"].(string)
	newID, okNew := r["new_id"].(string)
	return id, newID, okID && okNew
}

// NewPsRequest builds the wire payload for the "ps" command.
func NewPsRequest(all, detailed bool) Request {
	return Request{"command": CmdPs, "all": all, "detailed": detailed}
}

// PsPayload extracts the all/detailed filters from a "ps" request.
func (r Request) PsPayload() (all, detailed bool) {
	all, _ = r["all"].(bool)
	detailed, _ = r["detailed"].(bool)
	return all, detailed
}

// NewStatusRequest builds the wire payload for the "status" command.
func NewStatusRequest() Request { return Request{"command": CmdStatus} }

// NewStopRequest builds the wire payload for the "stop" command (the
// JSON form; the single-token ASCII "stop" is a distinct, unframed
// broker->tracker signal — see TokenStop).
func NewStopRequest() Request { return Request{"command": CmdStop} }

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// StatusResponse is the payload returned by the "status" command.
type StatusResponse struct {
	IP               string `json:"ip"`
	Port             int    `json:"port"`
	TrackedProcesses int    `json:"tracked_processes"`
	Running          int    `json:"running"`
	Stopped          int    `json:"stopped"`
}

// PsEntry is one projected registry entry in a "ps" response.
type PsEntry struct {
	ProcessName string `json:"process_name"`
	PID         int    `json:"pid,omitempty"`
	StartTime   string `json:"start_time"`
	Status      string `json:"status"`
	Conn        string `json:"conn,omitempty"`
}

func (e AddEntry) String() string {
	return fmt.Sprintf("%s(pid=%d,status=%s)", e.ProcessName, e.PID, e.Status)
}
