// Package marks implements the board-wise marks representation used on the
// wire and its conversion to and from the single flat score the form
// collects. The submission pipeline and the document renderer both go
// through this package so the two sides can never disagree on the shape.
package marks

import (
	"fmt"
	"strconv"
	"strings"
)

// Board names as they appear in the form's board selector. Any other
// non-empty value is treated as "others".
const (
	BoardCBSE       = "CBSE"
	BoardStateBoard = "STATE BOARD"
	BoardICSE       = "ICSE"
)

// Sheet is the wire representation of one educational level's score: a
// sparse mapping keyed by board with exactly one populated entry.
type Sheet struct {
	CBSE       string `json:"cbse"`
	StateBoard string `json:"stateboard"`
	ICSE       string `json:"icse"`
	Others     string `json:"others"`
}

// boardKey lowercases and strips spaces so "STATE BOARD", "StateBoard" and
// "state board" all address the same slot.
func boardKey(board string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(board)), " ", "")
}

// Resolve places score under the slot matching board. Boards other than
// CBSE, STATE BOARD and ICSE land in Others. An empty board yields an empty
// sheet; the form never submits a score without a board selection.
func Resolve(score, board string) Sheet {
	var s Sheet
	if strings.TrimSpace(board) == "" {
		return s
	}

	switch boardKey(board) {
	case "cbse":
		s.CBSE = score
	case "stateboard":
		s.StateBoard = score
	case "icse":
		s.ICSE = score
	default:
		s.Others = score
	}

	return s
}

// Flatten returns the single populated score of a sheet, scanning slots in
// the fixed order cbse, stateboard, icse, others. Both the edit-mode load
// path and the PDF renderer derive their display value through here.
func Flatten(s Sheet) string {
	for _, v := range []string{s.CBSE, s.StateBoard, s.ICSE, s.Others} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Populated reports how many slots of the sheet carry a value.
func Populated(s Sheet) int {
	n := 0
	for _, v := range []string{s.CBSE, s.StateBoard, s.ICSE, s.Others} {
		if v != "" {
			n++
		}
	}
	return n
}

// IsZero reports whether no slot carries a value.
func (s Sheet) IsZero() bool {
	return Populated(s) == 0
}

// FromAny decodes a sheet out of a decoded-JSON map. Records loaded from
// storage arrive as map[string]interface{}; records passed through the
// pipeline may already hold a Sheet.
func FromAny(v any) (Sheet, bool) {
	switch m := v.(type) {
	case Sheet:
		return m, true
	case *Sheet:
		if m == nil {
			return Sheet{}, false
		}
		return *m, true
	case map[string]any:
		return Sheet{
			CBSE:       stringAt(m, "cbse"),
			StateBoard: stringAt(m, "stateboard"),
			ICSE:       stringAt(m, "icse"),
			Others:     stringAt(m, "others"),
		}, true
	case map[string]string:
		return Sheet{
			CBSE:       m["cbse"],
			StateBoard: m["stateboard"],
			ICSE:       m["icse"],
			Others:     m["others"],
		}, true
	default:
		return Sheet{}, false
	}
}

func stringAt(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Kind discriminates the two shapes a marks value can take in a record.
type Kind int

const (
	// KindFlat is the form-side shape: one score plus the board it belongs to.
	KindFlat Kind = iota
	// KindResolved is the wire-side shape: the sparse board-keyed sheet.
	KindResolved
)

// Value is a marks value in either shape, with explicit conversions in
// place of shape-sniffing at every use site.
type Value struct {
	kind  Kind
	score string
	board string
	sheet Sheet
}

// Flat builds a form-side value.
func Flat(score, board string) Value {
	return Value{kind: KindFlat, score: score, board: board}
}

// Resolved wraps an already board-keyed sheet.
func Resolved(s Sheet) Value {
	return Value{kind: KindResolved, sheet: s}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// Sheet returns the wire shape, resolving a flat value if needed. Resolving
// an already resolved value is the identity, which is what makes the
// pipeline's payload shaping idempotent.
func (v Value) Sheet() Sheet {
	if v.kind == KindResolved {
		return v.sheet
	}
	return Resolve(v.score, v.board)
}

// Display returns the flat score for rendering, flattening a resolved
// value if needed.
func (v Value) Display() string {
	if v.kind == KindFlat {
		return v.score
	}
	return Flatten(v.sheet)
}
