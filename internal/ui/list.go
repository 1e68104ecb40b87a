package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/wingera/schematic-material-viewer/internal/formatter"
	"github.com/wingera/schematic-material-viewer/internal/models"
)

var _ list.Item = fileItem{}

// fileItem wraps [models.FileInfo] to implement [list.Item].
type fileItem struct {
	file models.FileInfo
}

func (i fileItem) FilterValue() string { return i.file.Filename }
func (i fileItem) Title() string       { return i.file.Filename }
func (i fileItem) Description() string {
	desc := formatter.FormatFileSize(i.file.Size)
	if i.file.Owner != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.file.Owner)
	}
	if i.file.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.file.Description)
	}
	return desc
}
