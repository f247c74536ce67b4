package ai

import (
	"context"
	"io"
)

// Transcriber converts recorded audio into plain transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Formatter rewrites a free transcript as line-oriented Q/A text.
type Formatter interface {
	FormatQA(ctx context.Context, transcript string) (string, error)
}
