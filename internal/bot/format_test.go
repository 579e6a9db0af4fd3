package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{4300 * time.Millisecond, "4.3s"},
		{900 * time.Millisecond, "0.9s"},
		{60 * time.Second, "1m 0.0s"},
		{72300 * time.Millisecond, "1m 12.3s"},
		{125 * time.Second, "2m 5.0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
