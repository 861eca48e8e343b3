// Package voice is the speech boundary of the assistant: microphone
// capture, Whisper transcription, text-to-speech synthesis and audio
// playback. Everything past this package works on plain text.
package voice
