package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// envelope is the wire frame: an event name plus its payload.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is the closed set of messages a [Channel] delivers. Only types
// in this package implement it, so consumers can switch exhaustively.
type Event interface {
	event()
}

// ItemUpdated reports a single-row status change made by another
// participant in the same document.
type ItemUpdated struct {
	Filename string        `json:"filename"`
	RowIndex int           `json:"rowIndex"`
	Status   models.Status `json:"status"`
	Username string        `json:"username"`
}

// FileDataUpdated replaces the full row set with another participant's
// copy. The last writer wins.
type FileDataUpdated struct {
	Filename string       `json:"filename"`
	Data     []models.Row `json:"data"`
}

// FileData carries the authoritative row set pushed after a join.
type FileData struct {
	Filename string       `json:"filename"`
	Data     []models.Row `json:"data"`
}

// UserJoined announces a participant entering the document.
type UserJoined struct {
	Filename string `json:"filename"`
	Username string `json:"username"`
}

// UserLeft announces a participant leaving the document.
type UserLeft struct {
	Filename string `json:"filename"`
	Username string `json:"username"`
}

// Connected reports that the channel (re)established its connection.
type Connected struct {
	// Resumed is true when this connection replaced a dropped one.
	Resumed bool
}

// Disconnected reports that the connection dropped. The channel keeps
// redialing after delivering it.
type Disconnected struct {
	Err error
}

// ReconnectFailed reports that every redial attempt was exhausted.
// The channel is closed after delivering it.
type ReconnectFailed struct {
	Attempts int
}

func (ItemUpdated) event()     {}
func (FileDataUpdated) event() {}
func (FileData) event()        {}
func (UserJoined) event()      {}
func (UserLeft) event()        {}
func (Connected) event()       {}
func (Disconnected) event()    {}
func (ReconnectFailed) event() {}

// Wire names for events that cross the socket. Lifecycle events
// (Connected, Disconnected, ReconnectFailed) are synthesized locally
// and never appear in a frame.
const (
	eventItemUpdated     = "item_updated"
	eventFileDataUpdated = "file_data_updated"
	eventFileData        = "file_data"
	eventUserJoined      = "user_joined"
	eventUserLeft        = "user_left"

	eventJoinFile     = "join_file"
	eventFileLoaded   = "file_loaded"
	eventSyncFileData = "sync_file_data"
	eventItemUpdate   = "item_updated"
)

// decodeEvent turns a raw frame into its concrete event type. Frames
// with an unknown name are rejected rather than silently dropped so the
// caller can log them.
func decodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed frame: %v", shared.ErrAPIRequest, err)
	}

	switch env.Event {
	case eventItemUpdated:
		var ev ItemUpdated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", shared.ErrAPIRequest, env.Event, err)
		}
		return ev, nil
	case eventFileDataUpdated:
		var ev FileDataUpdated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", shared.ErrAPIRequest, env.Event, err)
		}
		return ev, nil
	case eventFileData:
		var ev FileData
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", shared.ErrAPIRequest, env.Event, err)
		}
		return ev, nil
	case eventUserJoined:
		var ev UserJoined
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", shared.ErrAPIRequest, env.Event, err)
		}
		return ev, nil
	case eventUserLeft:
		var ev UserLeft
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", shared.ErrAPIRequest, env.Event, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: unknown event %q", shared.ErrAPIRequest, env.Event)
	}
}

// Outbound is the closed set of messages a client emits. Each variant
// knows its own wire name.
type Outbound interface {
	eventName() string
}

// JoinFile announces this client entering a document's room.
type JoinFile struct {
	Filename string `json:"filename"`
	Username string `json:"username"`
}

// FileLoaded shares the freshly opened row set with the room.
type FileLoaded struct {
	Filename string       `json:"filename"`
	Data     []models.Row `json:"data"`
}

// SyncFileData pushes this client's full row set to the room.
type SyncFileData struct {
	Filename string       `json:"filename"`
	Data     []models.Row `json:"data"`
}

// ItemUpdate broadcasts a single-row status change.
type ItemUpdate struct {
	Filename string        `json:"filename"`
	RowIndex int           `json:"rowIndex"`
	Status   models.Status `json:"status"`
	Username string        `json:"username"`
}

func (JoinFile) eventName() string     { return eventJoinFile }
func (FileLoaded) eventName() string   { return eventFileLoaded }
func (SyncFileData) eventName() string { return eventSyncFileData }
func (ItemUpdate) eventName() string   { return eventItemUpdate }

// encodeEvent wraps an outbound message in its wire envelope.
func encodeEvent(out Outbound) ([]byte, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", shared.ErrAPIRequest, out.eventName(), err)
	}
	return json.Marshal(envelope{Event: out.eventName(), Payload: payload})
}
