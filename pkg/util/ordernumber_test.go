package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextOrderNumber(t *testing.T) {
	// Empty or garbage input restarts the sequence.
	assert.Equal(t, "100001", NextOrderNumber(""))
	assert.Equal(t, "100001", NextOrderNumber("not-a-number"))
	assert.Equal(t, "100001", NextOrderNumber("-42"))

	assert.Equal(t, "100002", NextOrderNumber("100001"))
	assert.Equal(t, "100100", NextOrderNumber("100099"))

	// Sibling suffixes are stripped before incrementing.
	assert.Equal(t, "100002", NextOrderNumber("100001-a"))
	assert.Equal(t, "100002", NextOrderNumber("100001-b"))
}

func TestBaseOrderNumber(t *testing.T) {
	assert.Equal(t, "100001", BaseOrderNumber("100001"))
	assert.Equal(t, "100001", BaseOrderNumber("100001-a"))
	assert.Equal(t, "100001", BaseOrderNumber("100001-b"))
	assert.Equal(t, "", BaseOrderNumber(""))
}

func TestSiblingNumbers(t *testing.T) {
	custom, premade := SiblingNumbers("100001")
	assert.Equal(t, "100001-a", custom)
	assert.Equal(t, "100001-b", premade)
}
