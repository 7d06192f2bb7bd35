package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Rp 0", Format(0))
	assert.Equal(t, "Rp 500", Format(500))
	assert.Equal(t, "Rp 450.000", Format(450000))
	assert.Equal(t, "Rp 1.250.000", Format(1250000))
	assert.Equal(t, "-Rp 100.000", Format(-100000))
}

func TestDiscountPercent(t *testing.T) {
	cases := []struct {
		price, original int64
		want            int
	}{
		{450000, 599000, 25},
		{299000, 399000, 25},
		{750000, 950000, 21},
		{189000, 249000, 24},
		{320000, 450000, 29},
		{159000, 199000, 20},
		{100, 0, 0},
		{100, 100, 0},
		{100, 80, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DiscountPercent(c.price, c.original), "%d/%d", c.price, c.original)
	}
}

func TestCompactCount(t *testing.T) {
	assert.Equal(t, "0", CompactCount(0))
	assert.Equal(t, "924", CompactCount(924))
	assert.Equal(t, "1.2k", CompactCount(1200))
	assert.Equal(t, "2.1k", CompactCount(2100))
	assert.Equal(t, "10k", CompactCount(10000))
}
