package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.0, round2(4.0))
	assert.Equal(t, 4.33, round2(13.0/3.0))
	assert.Equal(t, 3.67, round2(11.0/3.0))
	assert.Equal(t, 0.0, round2(0))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
}

func TestNormPage(t *testing.T) {
	page, per := normPage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, per)

	page, per = normPage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, per)
}
