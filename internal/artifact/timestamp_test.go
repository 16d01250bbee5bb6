package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.0, "00:01:01,000"},
		{3661.456, "01:01:01,456"},
		{7322.1, "02:02:02,100"},
		{0.9999, "00:00:00,999"},
		{59.9999, "00:00:59,999"},
		{360000, "100:00:00,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Timestamp(tt.in), "Timestamp(%v)", tt.in)
	}
}

func TestVTTTimestamp(t *testing.T) {
	assert.Equal(t, "01:01:01.456", VTTTimestamp(3661.456))
	assert.Equal(t, "00:00:00.000", VTTTimestamp(0))
}
