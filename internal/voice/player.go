package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/teemow/voicecal/internal/errs"
)

// Play plays an audio file with the platform's playback command and waits
// for it to finish.
func Play(ctx context.Context, path string) error {
	name, args, err := playCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		return errs.WrapProvider("audio", "play", fmt.Errorf("%s: %w", name, err))
	}
	return nil
}

// playCommand picks the playback command for the platform.
func playCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "afplay", []string{path}, nil
	case "linux":
		return "mpg123", []string{"-q", path}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "/wait", path}, nil
	default:
		return "", nil, fmt.Errorf("audio playback not supported on %s", goos)
	}
}
