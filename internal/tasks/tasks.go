// package tasks coordinates the collaborative document session.
//
// The core abstraction is SyncEngine, which ties the REST client, the
// realtime channel, the in-memory session store, and the local session
// repository together: it opens documents, joins their rooms, applies
// remote updates, broadcasts local ones, and restores the previous
// session on startup. State changes are reported to the UI layer via a
// non-blocking Notice channel.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/realtime"
	"github.com/wingera/schematic-material-viewer/internal/services"
	"github.com/wingera/schematic-material-viewer/internal/session"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// JoinState tracks the engine's membership in a document room.
type JoinState int

const (
	// StateIdle means no document is open and no room is joined.
	StateIdle JoinState = iota
	// StateJoining means a join announcement is in flight.
	StateJoining
	// StateJoined means the engine is a live participant in a room.
	StateJoined
)

func (s JoinState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	default:
		return ""
	}
}

// Emitter sends outbound events to the room. *realtime.Channel
// implements it; tests substitute a recorder.
type Emitter interface {
	Emit(out realtime.Outbound) error
}

// SessionState persists the restore key between runs.
// *repositories.SessionRepository implements it.
type SessionState interface {
	LastOpenedFile() (string, error)
	SetLastOpenedFile(filename string) error
	ClearLastOpenedFile() error
}

// Delays between joining a room and pushing this client's copy to it.
// The first push shares the freshly opened data, the second forces a
// full sync for participants that missed it.
const (
	fileLoadedDelay   = 500 * time.Millisecond
	syncFileDataDelay = time.Second
)

// SyncEngine coordinates the live document session.
type SyncEngine struct {
	api     services.API
	store   *session.Store
	state   SessionState
	emitter Emitter
	logger  *log.Logger
	notices chan<- Notice

	// Push delays, overridable in tests.
	loadedDelay time.Duration
	syncDelay   time.Duration

	mu         sync.Mutex
	joinState  JoinState
	joinCancel context.CancelFunc
}

// NewSyncEngine creates a SyncEngine with the provided collaborators.
// notices may be nil when no UI is attached.
func NewSyncEngine(api services.API, store *session.Store, state SessionState, emitter Emitter, logger *log.Logger, notices chan<- Notice) *SyncEngine {
	return &SyncEngine{
		api:         api,
		store:       store,
		state:       state,
		emitter:     emitter,
		logger:      logger,
		notices:     notices,
		loadedDelay: fileLoadedDelay,
		syncDelay:   syncFileDataDelay,
		joinState:   StateIdle,
	}
}

// sendNotice sends a notice through the channel without blocking.
// Uses select with default so a slow consumer never stalls the engine.
func (e *SyncEngine) sendNotice(notice Notice) {
	if e.notices == nil {
		return
	}
	select {
	case e.notices <- notice:
	default:
	}
}

// JoinState returns the engine's current room membership.
func (e *SyncEngine) JoinState() JoinState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.joinState
}

// OpenDocument fetches a document from the service, makes it the open
// document, records it for session restore, and joins its room.
func (e *SyncEngine) OpenDocument(ctx context.Context, filename string) error {
	rows, err := e.api.OpenFile(ctx, filename)
	if err != nil {
		return err
	}

	e.leaveRoom()
	e.store.Open(filename, rows)

	if err := e.state.SetLastOpenedFile(filename); err != nil {
		e.logger.Warn("failed to persist session state", "error", err)
	}

	return e.joinRoom(ctx, filename)
}

// CloseDocument leaves the room, drops the open document, and forgets
// the restore key.
func (e *SyncEngine) CloseDocument() error {
	e.leaveRoom()
	e.store.Clear()

	if err := e.state.ClearLastOpenedFile(); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}

// Restore re-opens the document recorded by the previous run. The
// stored name is verified against the service's file list first; a
// stale entry is cleared and no document is opened.
func (e *SyncEngine) Restore(ctx context.Context) (string, error) {
	filename, err := e.state.LastOpenedFile()
	if err != nil {
		return "", err
	}
	if filename == "" {
		return "", nil
	}

	files, err := e.api.FileList(ctx)
	if err != nil {
		return "", err
	}

	found := false
	for _, file := range files {
		if file.Filename == filename {
			found = true
			break
		}
	}

	if !found {
		e.logger.Info("stored document no longer exists", "filename", filename)
		if err := e.state.ClearLastOpenedFile(); err != nil {
			return "", fmt.Errorf("failed to clear stale session state: %w", err)
		}
		return "", nil
	}

	if err := e.OpenDocument(ctx, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// SetStatus applies a local status change and broadcasts it to the
// room. Setting a row to its current status is a no-op and emits
// nothing. It reports whether the row changed.
func (e *SyncEngine) SetStatus(index int, status models.Status) (bool, error) {
	changed, err := e.store.SetStatus(index, status)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	e.mu.Lock()
	joined := e.joinState == StateJoined
	e.mu.Unlock()

	if joined {
		update := realtime.ItemUpdate{
			Filename: e.store.Filename(),
			RowIndex: index,
			Status:   status,
			Username: e.store.Username(),
		}
		if err := e.emitter.Emit(update); err != nil {
			e.logger.Warn("failed to broadcast status change", "row", index, "error", err)
		}
	}

	e.sendNotice(renderNotice("status updated"))
	return true, nil
}

// Save persists the open document under filename and resets the dirty
// baseline.
func (e *SyncEngine) Save(ctx context.Context, filename, description string) (*services.SaveResult, error) {
	if !e.store.HasDocument() {
		return nil, shared.ErrNoDocument
	}

	result, err := e.api.Save(ctx, filename, e.store.Rows(), description)
	if err != nil {
		return nil, err
	}

	e.store.MarkSaved()
	return result, nil
}

// HandleEvent applies one event from the realtime channel. The switch
// covers every event variant the channel can deliver.
func (e *SyncEngine) HandleEvent(ctx context.Context, ev realtime.Event) {
	switch ev := ev.(type) {
	case realtime.ItemUpdated:
		e.applyRemoteUpdate(ev)
	case realtime.FileDataUpdated:
		e.applyRemoteRows(ev.Filename, ev.Data, "document updated")
	case realtime.FileData:
		e.applyRemoteRows(ev.Filename, ev.Data, "document synced")
	case realtime.UserJoined:
		if ev.Username == e.store.Username() {
			return
		}
		e.logger.Info("user joined", "username", ev.Username, "filename", ev.Filename)
		e.sendNotice(userJoinedNotice(ev.Username))
	case realtime.UserLeft:
		if ev.Username == e.store.Username() {
			return
		}
		e.logger.Info("user left", "username", ev.Username, "filename", ev.Filename)
		e.sendNotice(userLeftNotice(ev.Username))
	case realtime.Connected:
		e.sendNotice(connectedNotice(ev.Resumed))
		if ev.Resumed {
			e.rejoin(ctx)
		}
	case realtime.Disconnected:
		e.logger.Warn("connection lost", "error", ev.Err)
		e.markDisconnected()
		e.sendNotice(disconnectedNotice())
	case realtime.ReconnectFailed:
		e.logger.Error("reconnection abandoned", "attempts", ev.Attempts)
		e.markDisconnected()
		e.sendNotice(reconnectFailedNotice(ev.Attempts))
	}
}

// Run consumes the event stream until it closes or ctx is canceled.
func (e *SyncEngine) Run(ctx context.Context, events <-chan realtime.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.HandleEvent(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

// applyRemoteUpdate applies a single-row change from another
// participant. An update that matches the row's current status is
// ignored, so an echo of this client's own broadcast changes nothing.
func (e *SyncEngine) applyRemoteUpdate(ev realtime.ItemUpdated) {
	if ev.Filename != e.store.Filename() {
		return
	}

	changed, err := e.store.SetStatus(ev.RowIndex, ev.Status)
	if err != nil {
		e.logger.Warn("dropping remote update", "row", ev.RowIndex, "error", err)
		return
	}
	if !changed {
		return
	}

	if ev.Username == e.store.Username() {
		e.sendNotice(renderNotice(""))
		return
	}
	e.sendNotice(remoteUpdateNotice(ev.Username, ev.RowIndex, ev.Status))
}

// applyRemoteRows replaces the full row set with another participant's
// copy. The incoming copy wins.
func (e *SyncEngine) applyRemoteRows(filename string, rows []models.Row, message string) {
	if filename != e.store.Filename() {
		return
	}

	if err := e.store.ReplaceRows(rows); err != nil {
		e.logger.Warn("dropping remote row set", "filename", filename, "error", err)
		return
	}

	e.sendNotice(renderNotice(message))
}

// joinRoom announces this client in the document's room and schedules
// the staggered data pushes. The pushes run under a per-join context;
// switching documents or closing cancels any still pending.
func (e *SyncEngine) joinRoom(ctx context.Context, filename string) error {
	e.mu.Lock()
	if e.joinState != StateIdle {
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot join %s while %s", shared.ErrInvalidArgument, filename, e.joinState)
	}
	e.joinState = StateJoining
	e.mu.Unlock()

	join := realtime.JoinFile{Filename: filename, Username: e.store.Username()}
	if err := e.emitter.Emit(join); err != nil {
		e.mu.Lock()
		e.joinState = StateIdle
		e.mu.Unlock()
		return err
	}

	joinCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.joinState = StateJoined
	e.joinCancel = cancel
	e.mu.Unlock()

	e.logger.Info("joined document", "filename", filename)
	go e.pushAfterJoin(joinCtx, filename)
	return nil
}

// pushAfterJoin shares this client's copy with the room: file_loaded
// shortly after joining, then a full sync_file_data.
func (e *SyncEngine) pushAfterJoin(ctx context.Context, filename string) {
	select {
	case <-time.After(e.loadedDelay):
	case <-ctx.Done():
		return
	}

	if e.store.Filename() != filename {
		return
	}
	loaded := realtime.FileLoaded{Filename: filename, Data: e.store.Rows()}
	if err := e.emitter.Emit(loaded); err != nil {
		e.logger.Warn("failed to push loaded data", "filename", filename, "error", err)
	}

	select {
	case <-time.After(e.syncDelay - e.loadedDelay):
	case <-ctx.Done():
		return
	}

	if e.store.Filename() != filename {
		return
	}
	syncPush := realtime.SyncFileData{Filename: filename, Data: e.store.Rows()}
	if err := e.emitter.Emit(syncPush); err != nil {
		e.logger.Warn("failed to push sync data", "filename", filename, "error", err)
	}
}

// leaveRoom cancels pending pushes and returns to Idle. Leaving while
// Idle is a no-op.
func (e *SyncEngine) leaveRoom() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.joinCancel != nil {
		e.joinCancel()
		e.joinCancel = nil
	}
	e.joinState = StateIdle
}

// markDisconnected drops room membership without touching the open
// document, so a later reconnect can re-join it.
func (e *SyncEngine) markDisconnected() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.joinCancel != nil {
		e.joinCancel()
		e.joinCancel = nil
	}
	if e.joinState != StateIdle {
		e.joinState = StateJoining
	}
}

// rejoin re-announces the open document after a reconnect. Exactly one
// join is sent per reconnection.
func (e *SyncEngine) rejoin(ctx context.Context) {
	filename := e.store.Filename()
	if filename == "" {
		return
	}

	e.mu.Lock()
	if e.joinState == StateJoined {
		e.mu.Unlock()
		return
	}
	e.joinState = StateIdle
	e.mu.Unlock()

	if err := e.joinRoom(ctx, filename); err != nil {
		e.logger.Error("failed to re-join document", "filename", filename, "error", err)
		e.sendNotice(errorNotice(err))
	}
}
