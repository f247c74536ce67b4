package handler_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fieldscribe/scribe-api/internal/config"
	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/handler"
	"github.com/fieldscribe/scribe-api/internal/router"
	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/internal/utils"
)

type fixedTranscriber struct {
	transcript string
	err        error
}

func (f *fixedTranscriber) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	return f.transcript, f.err
}

type fixedFormatter struct {
	output string
	err    error
}

func (f *fixedFormatter) FormatQA(_ context.Context, _ string) (string, error) {
	return f.output, f.err
}

func setupTranscriptionApp(t *testing.T, transcriber *fixedTranscriber, formatter *fixedFormatter) *fiber.App {
	t.Helper()

	logger := zerolog.New(io.Discard)
	transcriptionService := service.NewTranscriptionService(transcriber, formatter, 25, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		TranscriptionHandler: handler.NewTranscriptionHandler(transcriptionService, logger),
	})

	return app
}

// wavFixture yields a minimal valid 16-bit mono PCM file.
func wavFixture(t *testing.T, samples int) []byte {
	t.Helper()
	data := make([]byte, samples*2)
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(36+len(data))))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16000)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(32000)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(2)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(16)))

	buf.WriteString("data")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(len(data))))
	buf.Write(data)

	return buf.Bytes()
}

func postAudio(t *testing.T, app *fiber.App, filename string, content []byte) (int, []byte) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, payload
}

func TestTranscriptionHandlerSuccess(t *testing.T) {
	app := setupTranscriptionApp(t,
		&fixedTranscriber{transcript: "why did it fail bearing wear"},
		&fixedFormatter{output: "Q1: Why did it fail?\nA1: Bearing wear.\nQ2: Fix?\nA2: Replaced bearing."},
	)

	status, payload := postAudio(t, app, "service-call.wav", wavFixture(t, 128))
	require.Equal(t, fiber.StatusOK, status)

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(payload, &envelope))
	require.True(t, envelope.Success)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var result dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, "why did it fail bearing wear", result.Transcript)
	require.Len(t, result.Pairs, 2)
	require.Equal(t, 2, result.NumQuestions)
	require.Equal(t, 2, result.PointsAwarded)
}

func TestTranscriptionHandlerMissingFile(t *testing.T) {
	app := setupTranscriptionApp(t, &fixedTranscriber{}, &fixedFormatter{})

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTranscriptionHandlerRejectsNonAudio(t *testing.T) {
	app := setupTranscriptionApp(t, &fixedTranscriber{}, &fixedFormatter{})

	status, _ := postAudio(t, app, "notes.txt", []byte("just some text"))
	require.Equal(t, fiber.StatusUnsupportedMediaType, status)
}

func TestTranscriptionHandlerUnparseableExtraction(t *testing.T) {
	app := setupTranscriptionApp(t,
		&fixedTranscriber{transcript: "rambling with no structure"},
		&fixedFormatter{output: "no questions here at all"},
	)

	status, _ := postAudio(t, app, "service-call.wav", wavFixture(t, 128))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
}
