// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for collaborative material tracking:
//  1. [FileListView] : Browse the stored documents and open one
//  2. [DocumentView] : Work the material table, cycling row statuses
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Remote changes flow through the engine's Notice channel and are turned into
// messages with a recurring tea.Cmd, so another participant's update redraws
// the table without any local keypress.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus number
// keys 1/2/3 to set a row's status directly and space to cycle it.
package ui
