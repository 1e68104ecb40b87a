// package models defines the data model for the material list client
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the completion state of a row.
type Status int

const (
	NotCompleted Status = iota
	InProgress
	Completed
)

// Wire labels used by the tracking service. The service relays these strings
// verbatim between clients, so they must round-trip exactly.
const (
	labelNotCompleted = "未完成"
	labelInProgress   = "进行中"
	labelCompleted    = "已完成"
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "not_completed"
	}
}

// Label returns the wire label for the status.
func (s Status) Label() string {
	switch s {
	case InProgress:
		return labelInProgress
	case Completed:
		return labelCompleted
	default:
		return labelNotCompleted
	}
}

// StatusFromLabel maps a wire label to a Status. Unknown labels map to
// [NotCompleted], matching how the service treats rows with no recorded
// status.
func StatusFromLabel(label string) Status {
	switch label {
	case labelInProgress:
		return InProgress
	case labelCompleted:
		return Completed
	default:
		return NotCompleted
	}
}

// MarshalJSON encodes the status as its wire label.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

// UnmarshalJSON decodes a wire label into the status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("invalid status cell: %w", err)
	}
	*s = StatusFromLabel(label)
	return nil
}

// Packing constants for quantity breakdowns.
const (
	ItemsPerGroup = 64
	GroupsPerBox  = 27
)

// Breakdown splits a raw quantity into full boxes, remaining groups, and
// loose pieces. Non-numeric quantities yield a zero breakdown.
func Breakdown(quantity string) (boxes, groups, pieces int) {
	q, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || q < 0 {
		return 0, 0, 0
	}
	boxes = q / (ItemsPerGroup * GroupsPerBox)
	groups = q/ItemsPerGroup - boxes*GroupsPerBox
	pieces = q - (boxes*GroupsPerBox+groups)*ItemsPerGroup
	return boxes, groups, pieces
}

// Row is one material record: five descriptive cells and a status cell.
// On the wire it is a positional JSON array
// [name, quantity, boxes, groups, pieces, status].
type Row struct {
	Name     string
	Quantity string
	Boxes    int
	Groups   int
	Pieces   int
	Status   Status
}

// NewRow builds a row with a computed quantity breakdown and an initial
// [NotCompleted] status.
func NewRow(name, quantity string) Row {
	boxes, groups, pieces := Breakdown(quantity)
	return Row{
		Name:     name,
		Quantity: quantity,
		Boxes:    boxes,
		Groups:   groups,
		Pieces:   pieces,
		Status:   NotCompleted,
	}
}

// MarshalJSON encodes the row as the service's positional array.
func (r Row) MarshalJSON() ([]byte, error) {
	cells := []any{r.Name, r.Quantity, r.Boxes, r.Groups, r.Pieces, r.Status.Label()}
	return json.Marshal(cells)
}

// UnmarshalJSON decodes a positional array into the row. Numeric cells may
// arrive as JSON numbers or numeric strings depending on how the file was
// saved; both are accepted.
func (r *Row) UnmarshalJSON(data []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("row is not an array: %w", err)
	}
	if len(cells) != 6 {
		return fmt.Errorf("row has %d cells, want 6", len(cells))
	}

	var err error
	if r.Name, err = stringCell(cells[0]); err != nil {
		return fmt.Errorf("name cell: %w", err)
	}
	if r.Quantity, err = stringCell(cells[1]); err != nil {
		return fmt.Errorf("quantity cell: %w", err)
	}
	if r.Boxes, err = intCell(cells[2]); err != nil {
		return fmt.Errorf("boxes cell: %w", err)
	}
	if r.Groups, err = intCell(cells[3]); err != nil {
		return fmt.Errorf("groups cell: %w", err)
	}
	if r.Pieces, err = intCell(cells[4]); err != nil {
		return fmt.Errorf("pieces cell: %w", err)
	}

	label, err := stringCell(cells[5])
	if err != nil {
		return fmt.Errorf("status cell: %w", err)
	}
	r.Status = StatusFromLabel(label)
	return nil
}

// stringCell accepts a JSON string or number and returns its text form.
func stringCell(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cell %s is neither string nor number", string(raw))
}

// intCell accepts a JSON number or numeric string and returns its integer
// value. Empty strings decode to zero.
func intCell(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("cell %s is neither number nor string", string(raw))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not numeric", s)
	}
	return v, nil
}

// CloneRows returns an independent copy of a row slice.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// Counts holds the aggregate totals for a row set.
type Counts struct {
	Total        int
	Completed    int
	InProgress   int
	NotCompleted int
}

// CountRows recomputes aggregate counts by linear scan.
func CountRows(rows []Row) Counts {
	c := Counts{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case Completed:
			c.Completed++
		case InProgress:
			c.InProgress++
		default:
			c.NotCompleted++
		}
	}
	return c
}

// FileInfo describes a stored file as reported by the file list endpoints.
type FileInfo struct {
	Filename    string `json:"filename"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	Size        int64  `json:"size"`
}
