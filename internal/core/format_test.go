package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * MiB, "5.0 MB"},
		{GiB * 82 / 10, "8.2 GB"},
		{2 * TiB, "2.0 TB"},
		{-2048, "-2.0 KB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}

func TestFormatGB(t *testing.T) {
	assert.Equal(t, "< 0.1 GB", FormatGB(0))
	assert.Equal(t, "< 0.1 GB", FormatGB(50*MiB))
	assert.Equal(t, "0.1 GB", FormatGB(GiB/10+MiB))
	assert.Equal(t, "3.0 GB", FormatGB(3*GiB))
	assert.Equal(t, "1536.0 GB", FormatGB(3*TiB/2))
}

func TestToGB(t *testing.T) {
	assert.Equal(t, 0.0, ToGB(0))
	assert.Equal(t, 1.0, ToGB(GiB))
	assert.InDelta(t, 0.5, ToGB(GiB/2), 1e-9)
}
