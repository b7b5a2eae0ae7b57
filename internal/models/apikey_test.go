package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExhausted(t *testing.T) {
	limit := 2

	assert.False(t, (&APIKey{Usage: 100}).Exhausted(), "unlimited key never exhausts")
	assert.False(t, (&APIKey{Usage: 1, Limit: &limit}).Exhausted())
	assert.True(t, (&APIKey{Usage: 2, Limit: &limit}).Exhausted())
	assert.True(t, (&APIKey{Usage: 3, Limit: &limit}).Exhausted())
}
