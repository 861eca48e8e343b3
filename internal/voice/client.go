package voice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"

	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/logging"
)

// Operation names used in logs and metrics.
const (
	opTranscribe = "transcribe"
	opSynthesize = "synthesize"
)

// Client is the speech boundary: it turns recorded audio into text and
// replies into audio files via the OpenAI audio APIs.
type Client struct {
	api     openai.Client
	voice   string
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics attaches a metrics recorder for voice operation metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a speech client using the given synthesis voice.
func NewClient(apiKey, voice string, opts ...Option) *Client {
	c := &Client{
		api:    openai.NewClient(openaiopt.WithAPIKey(apiKey)),
		voice:  voice,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe converts the recorded audio file to text using Whisper.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", errs.WrapProvider("openai", opTranscribe, fmt.Errorf("open recording: %w", err))
	}
	defer f.Close()

	resp, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     f,
		Language: openai.String("en"),
	})
	if err != nil {
		c.metrics.RecordVoiceOperation(ctx, opTranscribe, instrumentation.StatusError)
		return "", errs.WrapProvider("openai", opTranscribe, err)
	}

	c.metrics.RecordVoiceOperation(ctx, opTranscribe, instrumentation.StatusSuccess)
	c.logger.DebugContext(ctx, "audio transcribed", logging.Operation(opTranscribe))
	return resp.Text, nil
}

// Synthesize renders text to speech and writes the MP3 to outPath.
func (c *Client) Synthesize(ctx context.Context, text, outPath string) error {
	resp, err := c.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoice(c.voice),
		Input: text,
	})
	if err != nil {
		c.metrics.RecordVoiceOperation(ctx, opSynthesize, instrumentation.StatusError)
		return errs.WrapProvider("openai", opSynthesize, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(outPath)
	if err != nil {
		c.metrics.RecordVoiceOperation(ctx, opSynthesize, instrumentation.StatusError)
		return errs.WrapProvider("openai", opSynthesize, fmt.Errorf("create audio file: %w", err))
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		c.metrics.RecordVoiceOperation(ctx, opSynthesize, instrumentation.StatusError)
		return errs.WrapProvider("openai", opSynthesize, fmt.Errorf("write audio file: %w", err))
	}

	c.metrics.RecordVoiceOperation(ctx, opSynthesize, instrumentation.StatusSuccess)
	c.logger.DebugContext(ctx, "speech synthesized",
		logging.Operation(opSynthesize),
		logging.Voice(c.voice),
	)
	return nil
}
