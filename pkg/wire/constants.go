package wire

// ASCII tokens exchanged in place of JSON for short, framing-free
// replies. This is the complete closed set the protocol uses.
const (
	TokenOK               = "ok"
	TokenError            = "error"
	TokenLimit            = "limit"
	TokenDuplicateID      = "duplicate id"
	TokenDuplicateProcess = "duplicate process"
	TokenDuplicate        = "duplicate"
	TokenStop             = "stop"
	TokenPing             = "ping"
)

// MaxMessageBytes bounds a single logical message. The transport assumes
// no encoded message exceeds this and performs exactly one recv per
// logical response.
const MaxMessageBytes = 4096

// Command names carried in the "command" field of a JSON request.
const (
	CmdAdd    = "add"
	CmdUpdate = "update"
	CmdRm     = "rm"
	CmdRename = "rename"
	CmdPs     = "ps"
	CmdStatus = "status"
	CmdStop   = "stop"
)
