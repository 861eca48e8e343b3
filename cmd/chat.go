package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/voicecal/internal/agent"
	"github.com/teemow/voicecal/internal/calendar"
	"github.com/teemow/voicecal/internal/config"
	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/google"
	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/logging"
	"github.com/teemow/voicecal/internal/tools"
	"github.com/teemow/voicecal/internal/voice"
)

func newChatCmd() *cobra.Command {
	var recordSeconds int

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive assistant",
		Long: `Start the interactive assistant shell. Each turn you choose voice or
typed input; the assistant answers in text and can optionally speak the
reply.

Requires OPENAI_API_KEY and a cached Google Calendar token (run
'voicecal auth' first, or let chat start the flow for you).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()
			return runChat(cmd.Context(), recordSeconds)
		},
	}

	cmd.Flags().IntVar(&recordSeconds, "record-seconds", voice.DefaultRecordSeconds, "Length of a voice capture in seconds")
	return cmd
}

func runChat(ctx context.Context, recordSeconds int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !calendar.HasToken() {
		fmt.Println("No Google Calendar token found; starting authorization.")
		if err := runAuthFlow(ctx); err != nil {
			return err
		}
	}

	client, err := calendar.NewClient(ctx, google.NewFileTokenProvider(), cfg.Location())
	if err != nil {
		return err
	}

	provider, err := instrumentation.NewProvider(ctx, instrumentation.LoadConfigFromEnv(version))
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	registry := tools.NewRegistry(
		tools.WithMetrics(provider.Metrics()),
		tools.WithAuditLogger(instrumentation.NewAuditLogger(nil)),
	)
	if err := tools.RegisterCalendarTools(registry, client); err != nil {
		return err
	}

	model := agent.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.Model, registry.Definitions(),
		agent.WithMetrics(provider.Metrics()),
	)
	loop := agent.NewLoop(model, registry, cfg.Location())
	speech := voice.NewClient(cfg.OpenAIAPIKey, cfg.Voice,
		voice.WithMetrics(provider.Metrics()),
	)

	fmt.Printf("voicecal %s — your calendar assistant (timezone %s, model %s)\n", version, cfg.Timezone, cfg.Model)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n[V]oice input, [T]ype input, or [Q]uit: ")
		choice, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}

		var input string
		voiceTurn := false
		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "v":
			voiceTurn = true
			input, err = captureVoice(ctx, speech, recordSeconds)
			if err != nil {
				fmt.Printf("Could not capture voice input: %v\n", err)
				continue
			}
			fmt.Printf("You said: %s\n", input)
		case "t":
			fmt.Print("You: ")
			input, err = reader.ReadString('\n')
			if err != nil {
				return nil
			}
			input = strings.TrimSpace(input)
		case "q":
			fmt.Println("Bye!")
			return nil
		default:
			continue
		}

		if input == "" {
			continue
		}

		answer, err := loop.Run(ctx, input)
		if err != nil {
			if errors.Is(err, errs.ErrToolLoopExceeded) {
				fmt.Println("I couldn't finish that request; it needed too many steps. Try breaking it up.")
				continue
			}
			if errs.IsProvider(err) {
				fmt.Printf("Something went wrong talking to a service: %v\n", err)
				continue
			}
			return err
		}

		fmt.Printf("Assistant: %s\n", answer)

		// Voice turns get a spoken reply; typed turns ask first.
		if !voiceTurn {
			fmt.Print("Speak response? (y/n): ")
			speak, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			if strings.ToLower(strings.TrimSpace(speak)) != "y" {
				continue
			}
		}
		if err := speakReply(ctx, speech, answer); err != nil {
			fmt.Printf("Could not speak the reply: %v\n", err)
		}
	}
}

// captureVoice records from the microphone and transcribes the result.
func captureVoice(ctx context.Context, speech *voice.Client, seconds int) (string, error) {
	recording := filepath.Join(os.TempDir(), "voicecal-input.wav")
	defer os.Remove(recording)

	fmt.Printf("Recording for %d seconds...\n", seconds)
	if err := voice.Record(ctx, recording, seconds); err != nil {
		return "", err
	}
	return speech.Transcribe(ctx, recording)
}

// speakReply synthesizes the answer and plays it back.
func speakReply(ctx context.Context, speech *voice.Client, text string) error {
	reply := filepath.Join(os.TempDir(), "voicecal-reply.mp3")
	defer os.Remove(reply)

	if err := speech.Synthesize(ctx, text, reply); err != nil {
		return err
	}
	return voice.Play(ctx, reply)
}
