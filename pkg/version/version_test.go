package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	InitBinaryVersion()

	s := String()
	assert.Contains(t, s, Version)
	assert.Contains(t, s, "commit: "+Commit)
	assert.NotEmpty(t, Version)
}
