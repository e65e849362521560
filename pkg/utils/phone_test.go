package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local leading zero", "081234567890", "+6281234567890"},
		{"bare mobile prefix", "81234567890", "+6281234567890"},
		{"already country code", "6281234567890", "+6281234567890"},
		{"already international", "+6281234567890", "+6281234567890"},
		{"spaces and dashes", "0812-3456 7890", "+6281234567890"},
		{"parenthesized", "(0812) 3456-7890", "+6281234567890"},
		{"foreign number kept", "14155552671", "+14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "0812345", DigitsOnly("+0 8-1(2)34 5"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("Budi Santoso")
	assert.Equal(t, "Budi", first)
	assert.Equal(t, "Santoso", last)

	first, last = SplitName("Budi")
	assert.Equal(t, "Budi", first)
	assert.Equal(t, "", last)

	first, last = SplitName("  Budi   Agus Santoso ")
	assert.Equal(t, "Budi", first)
	assert.Equal(t, "Agus Santoso", last)
}
