package document

import "fmt"

// SelectionState is an anchor/focus pair over block keys and UTF-16 offsets.
type SelectionState struct {
	AnchorKey    string
	AnchorOffset int
	FocusKey     string
	FocusOffset  int
	IsBackward   bool
	HasFocus     bool
}

// Collapsed returns a caret at key/offset.
func Collapsed(key string, offset int) SelectionState {
	return SelectionState{AnchorKey: key, AnchorOffset: offset, FocusKey: key, FocusOffset: offset}
}

// Range returns a forward selection from anchor to focus.
func Range(anchorKey string, anchorOffset int, focusKey string, focusOffset int) SelectionState {
	return SelectionState{AnchorKey: anchorKey, AnchorOffset: anchorOffset, FocusKey: focusKey, FocusOffset: focusOffset}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s SelectionState) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// StartKey returns the key of the selection start.
func (s SelectionState) StartKey() string {
	if s.IsBackward {
		return s.FocusKey
	}

	return s.AnchorKey
}

// StartOffset returns the offset of the selection start.
func (s SelectionState) StartOffset() int {
	if s.IsBackward {
		return s.FocusOffset
	}

	return s.AnchorOffset
}

// EndKey returns the key of the selection end.
func (s SelectionState) EndKey() string {
	if s.IsBackward {
		return s.AnchorKey
	}

	return s.FocusKey
}

// EndOffset returns the offset of the selection end.
func (s SelectionState) EndOffset() int {
	if s.IsBackward {
		return s.AnchorOffset
	}

	return s.FocusOffset
}

// CollapseTo returns the selection moved to a forward caret at key/offset.
func (s SelectionState) CollapseTo(key string, offset int) SelectionState {
	s.AnchorKey, s.AnchorOffset = key, offset
	s.FocusKey, s.FocusOffset = key, offset
	s.IsBackward = false

	return s
}

// WithOffsets returns the selection with anchor and focus offsets replaced,
// keeping keys.
func (s SelectionState) WithOffsets(anchor, focus int) SelectionState {
	s.AnchorOffset, s.FocusOffset = anchor, focus

	return s
}

func (s SelectionState) String() string {
	return fmt.Sprintf("%s:%d..%s:%d", s.StartKey(), s.StartOffset(), s.EndKey(), s.EndOffset())
}
