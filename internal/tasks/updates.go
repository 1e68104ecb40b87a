package tasks

import (
	"fmt"

	"github.com/wingera/schematic-material-viewer/internal/models"
)

// Notice represents an event the UI layer should surface: a table
// refresh, a transient notification, or a connection status change.
//
// Notices are sent over a channel with a non-blocking send, so a slow
// or absent consumer never stalls the engine.
type Notice struct {
	Kind    NoticeKind // What the consumer should do with it
	Message string     // Human-readable text for display
	Data    any        // Optional kind-specific data for advanced UIs
}

// NoticeKind enumeration
type NoticeKind int

const (
	// NoticeRender means the document content changed and the table
	// should redraw.
	NoticeRender NoticeKind = iota
	// NoticeInfo is a transient informational message.
	NoticeInfo
	// NoticeError is a transient error message.
	NoticeError
	// NoticeConnection reports a connection status change.
	NoticeConnection
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeRender:
		return "render"
	case NoticeInfo:
		return "info"
	case NoticeError:
		return "error"
	case NoticeConnection:
		return "connection"
	default:
		return ""
	}
}

func renderNotice(message string) Notice {
	return Notice{
		Kind:    NoticeRender,
		Message: message,
	}
}

func remoteUpdateNotice(username string, rowIndex int, status models.Status) Notice {
	return Notice{
		Kind:    NoticeRender,
		Message: fmt.Sprintf("%s set row %d to %s", username, rowIndex+1, status.Label()),
	}
}

func userJoinedNotice(username string) Notice {
	return Notice{
		Kind:    NoticeInfo,
		Message: fmt.Sprintf("%s joined", username),
	}
}

func userLeftNotice(username string) Notice {
	return Notice{
		Kind:    NoticeInfo,
		Message: fmt.Sprintf("%s left", username),
	}
}

func errorNotice(err error) Notice {
	return Notice{
		Kind:    NoticeError,
		Message: err.Error(),
	}
}

func connectedNotice(resumed bool) Notice {
	message := "connected"
	if resumed {
		message = "reconnected"
	}
	return Notice{
		Kind:    NoticeConnection,
		Message: message,
		Data:    true,
	}
}

func disconnectedNotice() Notice {
	return Notice{
		Kind:    NoticeConnection,
		Message: "connection lost, retrying...",
		Data:    false,
	}
}

func reconnectFailedNotice(attempts int) Notice {
	return Notice{
		Kind:    NoticeConnection,
		Message: fmt.Sprintf("gave up reconnecting after %d attempts", attempts),
		Data:    false,
	}
}
