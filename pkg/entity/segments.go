package entity

import "github.com/Sumatoshi-tech/inkwell/pkg/textutil"

// Direction is the direction of a character removal.
type Direction int

// Removal directions.
const (
	Forward Direction = iota
	Backward
)

const segmentDelimiter = ' '

// SegmentRemovalRange aligns a removal of [selStart, selEnd) to the
// space-delimited segments of a SEGMENTED entity whose text starts at
// entityStart. Whole segments overlapping the selection are removed along
// with one adjoining delimiter, chosen by direction. A selection that does
// not overlap the entity is returned unchanged.
func SegmentRemovalRange(selStart, selEnd int, text textutil.UTF16, entityStart int, dir Direction) (start, end int) {
	bounds := segmentBounds(text, dir)
	found := false
	segStart := entityStart

	for _, n := range bounds {
		segEnd := segStart + n

		switch {
		case selStart < segEnd && segStart < selEnd:
			if !found {
				start = segStart
				found = true
			}

			end = segEnd
		case found:
			return widen(start, end, entityStart, entityStart+text.Len(), dir)
		}

		segStart = segEnd
	}

	if !found {
		return selStart, selEnd
	}

	return widen(start, end, entityStart, entityStart+text.Len(), dir)
}

// segmentBounds returns the lengths of segments with the delimiter attached
// to the following segment when moving forward and to the preceding one when
// moving backward.
func segmentBounds(text textutil.UTF16, dir Direction) []int {
	var raw []int

	from := 0

	for {
		idx := text.Index(segmentDelimiter, from)
		if idx < 0 {
			raw = append(raw, text.Len()-from)

			break
		}

		raw = append(raw, idx-from)
		from = idx + 1
	}

	for i := range raw {
		if (dir == Forward && i > 0) || (dir == Backward && i < len(raw)-1) {
			raw[i]++
		}
	}

	return raw
}

func widen(start, end, entityStart, entityEnd int, dir Direction) (int, int) {
	atStart := start == entityStart
	atEnd := end == entityEnd

	if atStart == atEnd {
		return start, end
	}

	if dir == Forward {
		if end != entityEnd {
			end++
		}
	} else if start != entityStart {
		start--
	}

	return start, end
}
