package kiosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{125, "2h 5m"},
		{45, "45 minutes"},
		{60, "1h 0m"},
		{61, "1h 1m"},
		{0, "0 minutes"},
		{1, "1 minutes"},
		{59, "59 minutes"},
		{600, "10h 0m"},
		{-5, "0 minutes"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.minutes), "minutes=%d", tc.minutes)
	}
}
