// SPDX-License-Identifier: EPL-2.0

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/voxbooth/encode"
)

// DefaultTimeout bounds one submission when Client.HTTP is nil.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a rejection body is kept in the error.
const maxErrorBody = 512

// Submission is one artifact sent for delivery.
type Submission struct {
	Artifact    encode.Artifact
	Title       string
	PhoneNumber string
}

// Client posts artifacts as multipart forms.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Logger   *slog.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Submit uploads s. The form carries title, phoneNumber, voice and
// durationSeconds fields and the artifact bytes as the "audio" file part.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	if len(s.Artifact.Bytes) == 0 {
		return ErrNoArtifact
	}

	body, contentType, err := encodeForm(s)
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", s.Artifact.Voice, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s: %s", ErrUploadRejected, resp.Status, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger().Info("artifact uploaded",
		slog.String("voice", s.Artifact.Voice),
		slog.String("mime_type", s.Artifact.MimeType),
		slog.Int("bytes", len(s.Artifact.Bytes)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

func encodeForm(s Submission) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	voice := s.Artifact.Voice
	if voice == "" {
		voice = encode.Original
	}

	fields := []struct{ name, value string }{
		{"title", s.Title},
		{"phoneNumber", s.PhoneNumber},
		{"voice", voice},
		{"durationSeconds", strconv.FormatFloat(s.Artifact.Duration, 'f', 3, 64)},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	mimeType := s.Artifact.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="audio"; filename="%s%s"`, voice, Extension(mimeType)))
	header.Set("Content-Type", mimeType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(s.Artifact.Bytes); err != nil {
		return nil, "", err
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}

	return body, form.FormDataContentType(), nil
}

// Extension returns the file extension for an artifact MIME type.
func Extension(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")

	switch strings.TrimSpace(base) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg":
		return ".mp3"
	case "audio/aiff", "audio/x-aiff":
		return ".aiff"
	}

	return ".bin"
}
