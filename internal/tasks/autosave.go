package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wingera/schematic-material-viewer/internal/services"
	"github.com/wingera/schematic-material-viewer/internal/session"
)

// AutoSaver periodically persists the open document when its content
// has drifted from the last saved baseline. A clean document is never
// saved, so an idle session produces no traffic.
type AutoSaver struct {
	api      services.API
	store    *session.Store
	logger   *log.Logger
	notices  chan<- Notice
	interval time.Duration
}

// NewAutoSaver creates an AutoSaver. notices may be nil.
func NewAutoSaver(api services.API, store *session.Store, logger *log.Logger, notices chan<- Notice, interval time.Duration) *AutoSaver {
	return &AutoSaver{
		api:      api,
		store:    store,
		logger:   logger,
		notices:  notices,
		interval: interval,
	}
}

// Run ticks until ctx is canceled.
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.SaveIfDirty(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SaveIfDirty performs one auto-save pass. It reports whether a save
// was attempted.
func (a *AutoSaver) SaveIfDirty(ctx context.Context) bool {
	if !a.store.HasDocument() || !a.store.Dirty() {
		return false
	}

	filename := a.store.Filename()
	if err := a.api.AutoSave(ctx, filename, a.store.Rows()); err != nil {
		a.logger.Warn("auto-save failed", "filename", filename, "error", err)
		return true
	}

	a.store.MarkSaved()
	a.logger.Debug("auto-saved", "filename", filename)
	a.sendNotice(Notice{Kind: NoticeInfo, Message: "auto-saved"})
	return true
}

func (a *AutoSaver) sendNotice(notice Notice) {
	if a.notices == nil {
		return
	}
	select {
	case a.notices <- notice:
	default:
	}
}
