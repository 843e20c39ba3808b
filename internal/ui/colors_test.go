package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaint(t *testing.T) {
	prev := Enabled()
	defer SetEnabled(prev)

	SetEnabled(true)
	assert.Equal(t, ColorRed+"boom"+ColorReset, Error("boom"))
	assert.Equal(t, ColorDim+ColorYellow+"note"+ColorReset, Info("note"))
	assert.Equal(t, "plain", Paint("plain"))

	SetEnabled(false)
	assert.Equal(t, "boom", Error("boom"))
	assert.Equal(t, "ok", Success("ok"))
}

func TestField(t *testing.T) {
	assert.Equal(t, "  Rows written: 42", Field("Rows written", 42))
	assert.Equal(t, "  Pages:        1-3", Field("Pages", "1-3"))
}
