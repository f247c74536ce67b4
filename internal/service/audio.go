package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-audio/wav"
)

var (
	// ErrAudioTypeNotAllowed indicates the recording is neither WAV nor MP3.
	ErrAudioTypeNotAllowed = errors.New("audio must be a wav or mp3 file")
	// ErrAudioTooLarge indicates the recording exceeded the configured limit.
	ErrAudioTooLarge = errors.New("audio exceeds maximum allowed size")
	// ErrAudioInvalid indicates the payload is not decodable audio.
	ErrAudioInvalid = errors.New("invalid audio data")
)

// validateAudio checks the MIME type of the recording and, for WAV payloads,
// verifies the headers describe audio a transcription model can consume.
func validateAudio(payload []byte) error {
	detected := strings.ToLower(mimetype.Detect(payload).String())

	switch {
	case strings.Contains(detected, "wav") || strings.Contains(detected, "wave"):
		return validateWAV(payload)
	case detected == "audio/mpeg" || detected == "audio/mp3":
		return nil
	default:
		return fmt.Errorf("%w: detected %s", ErrAudioTypeNotAllowed, detected)
	}
}

func validateWAV(payload []byte) error {
	decoder := wav.NewDecoder(bytes.NewReader(payload))
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return fmt.Errorf("%w: malformed wav header", ErrAudioInvalid)
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return fmt.Errorf("%w: unsupported bit depth %d", ErrAudioInvalid, decoder.BitDepth)
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrAudioInvalid, decoder.NumChans)
	}

	return nil
}
