package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Anna Rose (00:00:05):
Welcome to Zero Knowledge.

Tarun (00:00:12): Thanks for having me.

Anna Rose (00:01:02):
Let's dive in.`

func TestParse(t *testing.T) {
	clips, err := Parse(sample)
	require.NoError(t, err)
	require.Len(t, clips, 3)

	assert.Equal(t, Clip{Index: 1, Speaker: "Anna Rose", Start: 5 * time.Second, End: 12 * time.Second, Body: "Welcome to Zero Knowledge."}, clips[0])
	assert.Equal(t, "Tarun", clips[1].Speaker)
	assert.Equal(t, "Thanks for having me.", clips[1].Body)
	assert.Equal(t, 62*time.Second, clips[1].End)
	assert.Equal(t, 67*time.Second, clips[2].End, "last clip lasts LastClipDuration")
}

func TestToSRT(t *testing.T) {
	out, err := ToSRT(sample)
	require.NoError(t, err)

	want := "1\n00:00:05,000 --> 00:00:12,000\nWelcome to Zero Knowledge.\n\n" +
		"2\n00:00:12,000 --> 00:01:02,000\nThanks for having me.\n\n" +
		"3\n00:01:02,000 --> 00:01:07,000\nLet's dive in.\n\n"
	assert.Equal(t, want, out)
}

func TestToSRT_WindowsLineEndings(t *testing.T) {
	out, err := ToSRT("A (01:00:00):\r\nHi\r\n\r\nB (01:00:03):\r\nBye")
	require.NoError(t, err)
	assert.Contains(t, out, "1\n01:00:00,000 --> 01:00:03,000\nHi\n")
	assert.Contains(t, out, "2\n01:00:03,000 --> 01:00:08,000\nBye\n")
}

func TestToSRT_Empty(t *testing.T) {
	out, err := ToSRT("  \n ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		block int
	}{
		{"no timestamp", "Anna Rose:\nHello", 1},
		{"no body", "Anna Rose (00:00:01):\nHello\n\nTarun (00:00:02):", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.block, perr.Block)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:00,000", FormatTimestamp(0))
	assert.Equal(t, "01:02:03,450", FormatTimestamp(time.Hour+2*time.Minute+3*time.Second+450*time.Millisecond))
	assert.Equal(t, "00:00:00,000", FormatTimestamp(-time.Second))
}
