package modifier

import "github.com/Sumatoshi-tech/inkwell/pkg/document"

// ApplyInlineStyle adds style to every character covered by sel.
func ApplyInlineStyle(cs document.ContentState, sel document.SelectionState, style string) (document.ContentState, error) {
	return mapCharacters(cs, sel, func(c *document.CharacterMetadata) *document.CharacterMetadata {
		return c.WithStyle(style)
	})
}

// RemoveInlineStyle removes style from every character covered by sel.
func RemoveInlineStyle(cs document.ContentState, sel document.SelectionState, style string) (document.ContentState, error) {
	return mapCharacters(cs, sel, func(c *document.CharacterMetadata) *document.CharacterMetadata {
		return c.WithoutStyle(style)
	})
}
