package service

import (
	"bytes"
	"encoding/binary"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

// buildWAV yields a minimal valid 16-bit mono PCM file.
func buildWAV(t *testing.T, samples int) []byte {
	t.Helper()
	data := make([]byte, samples*2)
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(36+len(data))))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))     // PCM
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))     // mono
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16000))) // sample rate
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(32000))) // byte rate
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(2)))     // block align
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(16)))    // bit depth

	buf.WriteString("data")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(len(data))))
	buf.Write(data)

	return buf.Bytes()
}
