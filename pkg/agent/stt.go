package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/command-pidog/pidog-api/internal/httpc"
)

// sttClient talks to a Whisper-compatible speech-to-text service over
// its multipart upload endpoint.
type sttClient struct {
	url  string
	http *http.Client
}

func newSTTClient(url string) *sttClient {
	return &sttClient{url: url, http: httpc.Client}
}

// sttResponse covers both reply shapes seen from Whisper-style servers.
type sttResponse struct {
	Text          string `json:"text"`
	Transcription string `json:"transcription"`
}

// Transcribe uploads audio and returns the recognized text, trimmed.
func (c *sttClient) Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("stt response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stt service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed sttResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("stt response: %w", err)
	}
	text := parsed.Text
	if text == "" {
		text = parsed.Transcription
	}
	return strings.TrimSpace(text), nil
}
