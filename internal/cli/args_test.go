package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pixel2gltf/internal/config"
)

func TestParseNoArgs(t *testing.T) {
	c := config.Default()
	_, ok := Parse(nil, &c)
	assert.False(t, ok)
	assert.Equal(t, config.Default(), c)
}

func TestParseDefaults(t *testing.T) {
	c := config.Default()
	path, ok := Parse([]string{"art/hero.png"}, &c)
	assert.True(t, ok)
	assert.Equal(t, "art/hero.png", path)
	assert.Equal(t, config.Default(), c)
}

func TestParseFlags(t *testing.T) {
	c := config.Default()
	path, ok := Parse([]string{"hero.png", "-p", "10", "-r", "0", "-g", "128", "-b", "255"}, &c)
	assert.True(t, ok)
	assert.Equal(t, "hero.png", path)
	assert.Equal(t, 10, c.CellSize)
	assert.Equal(t, [3]uint8{0, 128, 255}, c.Background)
}

func TestParseIgnoresBadFlags(t *testing.T) {
	c := config.Default()
	_, ok := Parse([]string{"hero.png", "-x", "3", "-p", "abc", "-r", "300", "-g", "-1", "-p", "0", "-b"}, &c)
	assert.True(t, ok)
	assert.Equal(t, config.Default(), c)
}

func TestParseLastFlagWins(t *testing.T) {
	c := config.Default()
	Parse([]string{"hero.png", "-p", "8", "-p", "16"}, &c)
	assert.Equal(t, 16, c.CellSize)
}

func TestRegistryApply(t *testing.T) {
	var got []int
	r := NewRegistry()
	r.Register("-n", func(v int) bool {
		got = append(got, v)
		return true
	})
	r.Apply([]string{"-n", "1", "x", "-n", "2", "-n"})
	assert.Equal(t, []int{1, 2}, got)
}
