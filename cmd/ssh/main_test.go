package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtySize(t *testing.T) {
	var size ptySize
	w, h, err := size.get()
	require.NoError(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)

	size.set(120, 40)
	w, h, _ = size.get()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	size.set(80, 24)
	w, h, _ = size.get()
	assert.Equal(t, []int{80, 24}, []int{w, h})
}
