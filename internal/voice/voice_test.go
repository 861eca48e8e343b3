package voice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/voicecal/internal/errs"
)

func TestRecordCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		wantCmd  string
		wantArgs []string
	}{
		{"linux", "arecord", []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", "5", "/tmp/in.wav"}},
		{"darwin", "rec", []string{"-q", "-r", "16000", "-c", "1", "/tmp/in.wav", "trim", "0", "5"}},
		{"windows", "sox", []string{"-q", "-t", "waveaudio", "-d", "-r", "16000", "-c", "1", "/tmp/in.wav", "trim", "0", "5"}},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			name, args, err := recordCommand(tc.goos, "/tmp/in.wav", 5)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCmd, name)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestRecordCommandUnsupportedPlatform(t *testing.T) {
	_, _, err := recordCommand("plan9", "/tmp/in.wav", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestPlayCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos    string
		wantCmd string
	}{
		{"darwin", "afplay"},
		{"linux", "mpg123"},
		{"windows", "cmd"},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			name, args, err := playCommand(tc.goos, "/tmp/out.mp3")
			require.NoError(t, err)
			assert.Equal(t, tc.wantCmd, name)
			assert.Contains(t, args, "/tmp/out.mp3")
		})
	}
}

func TestPlayCommandUnsupportedPlatform(t *testing.T) {
	_, _, err := playCommand("plan9", "/tmp/out.mp3")
	require.Error(t, err)
}

func TestTranscribeMissingFile(t *testing.T) {
	c := NewClient("test-key", "alloy")

	_, err := c.Transcribe(context.Background(), "/nonexistent/recording.wav")
	require.Error(t, err)
	assert.True(t, errs.IsProvider(err))
}
