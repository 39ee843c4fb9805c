package raw

import "unicode/utf8"

// Summary describes the shape of a raw document.
type Summary struct {
	Blocks      int            `json:"blocks"`
	TopLevel    int            `json:"topLevel"`
	MaxLevel    int            `json:"maxLevel"`
	Characters  int            `json:"characters"`
	Entities    int            `json:"entities"`
	BlockTypes  map[string]int `json:"blockTypes"`
	EntityTypes map[string]int `json:"entityTypes"`
	// Styles counts styled characters per style.
	Styles map[string]int `json:"styles"`
	Rows   []BlockSummary `json:"rows"`
}

// BlockSummary is one block of a Summary. Characters counts code points.
type BlockSummary struct {
	Key          string `json:"key"`
	Type         string `json:"type"`
	Level        int    `json:"level"`
	Depth        int    `json:"depth"`
	Characters   int    `json:"characters"`
	StyleRanges  int    `json:"styleRanges"`
	EntityRanges int    `json:"entityRanges"`
	Children     int    `json:"children"`
}

// Summarize counts the blocks, characters, styles and entities of doc.
func Summarize(doc *Document) Summary {
	s := Summary{
		TopLevel:    len(doc.Blocks),
		Entities:    len(doc.EntityMap),
		BlockTypes:  make(map[string]int),
		EntityTypes: make(map[string]int),
		Styles:      make(map[string]int),
	}

	for _, ent := range doc.EntityMap {
		s.EntityTypes[ent.Type]++
	}

	doc.Walk(func(b Block, level int) {
		chars := utf8.RuneCountInString(b.Text)

		s.Blocks++
		s.Characters += chars
		s.MaxLevel = max(s.MaxLevel, level)
		s.BlockTypes[b.Type]++

		for _, r := range b.InlineStyleRanges {
			s.Styles[r.Style] += r.Length
		}

		s.Rows = append(s.Rows, BlockSummary{
			Key:          b.Key,
			Type:         b.Type,
			Level:        level,
			Depth:        b.Depth,
			Characters:   chars,
			StyleRanges:  len(b.InlineStyleRanges),
			EntityRanges: len(b.EntityRanges),
			Children:     len(b.ChildBlockMap),
		})
	})

	return s
}
