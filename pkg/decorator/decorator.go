// Package decorator classifies block characters for rendering. A decorator
// reports, per character, the ordered list of decorator matches covering it,
// outermost first.
package decorator

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// Match identifies one decorated range: the component that produced it and
// the ordinal of the match among that component's matches in the block.
type Match struct {
	Component int
	Ordinal   int
}

func (m Match) String() string {
	return fmt.Sprintf("%d.%d", m.Component, m.Ordinal)
}

// Path lists the matches covering one character, outermost first. A nil Path
// means the character is undecorated.
type Path []Match

// At returns the match at nesting level.
func (p Path) At(level int) (Match, bool) {
	if level < 0 || level >= len(p) {
		return Match{}, false
	}

	return p[level], true
}

// Decorator produces one Path per character of a block.
type Decorator interface {
	Decorations(b document.Block, cs document.ContentState) []Path
}

// Strategy reports decorated ranges of a block through found.
type Strategy func(b document.Block, cs document.ContentState, found func(start, end int))

// Component is one entry of a Composite decorator. Components with a higher
// WrapLevel wrap those with a lower one when their matches overlap.
type Component struct {
	Name      string
	Strategy  Strategy
	WrapLevel int
	Props     map[string]any
}

// Composite runs its components in order and merges their matches.
type Composite struct {
	components []Component
}

// NewComposite builds a composite from components. The slice is copied so
// later changes by the caller do not alter match precedence.
func NewComposite(components ...Component) *Composite {
	return &Composite{components: slices.Clone(components)}
}

// Decorations implements Decorator.
func (c *Composite) Decorations(b document.Block, cs document.ContentState) []Path {
	paths := make([]Path, b.Len())

	for idx, comp := range c.components {
		ordinal := 0

		comp.Strategy(b, cs, func(start, end int) {
			start, end = max(start, 0), min(end, len(paths))
			for i := start; i < end; i++ {
				paths[i] = append(paths[i], Match{Component: idx, Ordinal: ordinal})
			}

			ordinal++
		})
	}

	for _, p := range paths {
		slices.SortStableFunc(p, func(a, b Match) int {
			return c.components[b.Component].WrapLevel - c.components[a.Component].WrapLevel
		})
	}

	return paths
}

// Component returns the component that produced m.
func (c *Composite) Component(m Match) (Component, bool) {
	if m.Component < 0 || m.Component >= len(c.components) {
		return Component{}, false
	}

	return c.components[m.Component], true
}

// Len returns the number of components.
func (c *Composite) Len() int { return len(c.components) }

// RegexpStrategy decorates every match of re in the block text.
func RegexpStrategy(re *regexp.Regexp) Strategy {
	return func(b document.Block, _ document.ContentState, found func(start, end int)) {
		text := b.String()
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}

			found(textutil.UnitOffset(text, loc[0]), textutil.UnitOffset(text, loc[1]))
		}
	}
}

// EntityTypeStrategy decorates every run of characters whose priority entity
// has type typ.
func EntityTypeStrategy(typ string) Strategy {
	return func(b document.Block, cs document.ContentState, found func(start, end int)) {
		b.FindEntityRanges(func(c *document.CharacterMetadata) bool {
			key := c.Entity()
			if key == 0 {
				return false
			}

			ent, err := cs.Entity(key)

			return err == nil && ent.Type == typ
		}, found)
	}
}
