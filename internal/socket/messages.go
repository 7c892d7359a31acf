package socket

// Frame kinds.
const (
	typeAuth          = "auth"
	typeAuthFailed    = "authFailed"
	typeHeartbeat     = "heartbeat"
	typeClientMessage = "fm-to-sync-client-message"
	typeNewEvent      = "new-event"
)

// forwardedTypes are passed to the sink unchanged.
var forwardedTypes = map[string]struct{}{
	typeNewEvent:           {},
	"file-new":             {},
	"file-rename":          {},
	"file-move":            {},
	"file-trash":           {},
	"file-restore":         {},
	"file-archived":        {},
	"folder-trash":         {},
	"folder-move":          {},
	"folder-sub-created":   {},
	"folder-restore":       {},
	"folder-rename":        {},
	"folder-color-changed": {},
	"trash-empty":          {},
}

type frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type authData struct {
	APIKey string `json:"apiKey"`
}
