package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/teemow/voicecal/internal/errs"
)

// DefaultRecordSeconds caps a single voice capture.
const DefaultRecordSeconds = 10

// Record captures microphone audio into a 16 kHz mono WAV file using the
// platform's recording command. The recording stops after seconds elapse.
func Record(ctx context.Context, outPath string, seconds int) error {
	if seconds <= 0 {
		seconds = DefaultRecordSeconds
	}

	name, args, err := recordCommand(runtime.GOOS, outPath, seconds)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errs.WrapProvider("audio", "record", fmt.Errorf("%s: %w (%s)", name, err, out))
	}
	return nil
}

// recordCommand picks the recording command for the platform.
func recordCommand(goos, outPath string, seconds int) (string, []string, error) {
	secs := strconv.Itoa(seconds)
	switch goos {
	case "linux":
		return "arecord", []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", secs, outPath}, nil
	case "darwin":
		// sox ships the rec front-end on macOS
		return "rec", []string{"-q", "-r", "16000", "-c", "1", outPath, "trim", "0", secs}, nil
	case "windows":
		return "sox", []string{"-q", "-t", "waveaudio", "-d", "-r", "16000", "-c", "1", outPath, "trim", "0", secs}, nil
	default:
		return "", nil, fmt.Errorf("audio recording not supported on %s", goos)
	}
}
