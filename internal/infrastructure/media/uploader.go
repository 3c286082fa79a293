package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// Uploader posts profile photos to a Cloudinary-style unsigned upload
// endpoint: multipart form with the file bytes, an upload preset, and a
// destination identifier. The service returns a publicly fetchable URL.
type Uploader struct {
	httpClient *http.Client
	uploadURL  string
	preset     string
}

// NewUploaderFromEnv reads UPLOAD_URL and UPLOAD_PRESET.
func NewUploaderFromEnv() (*Uploader, error) {
	url := os.Getenv("UPLOAD_URL")
	preset := os.Getenv("UPLOAD_PRESET")
	if url == "" || preset == "" {
		return nil, errors.New("media: UPLOAD_URL and UPLOAD_PRESET environment variables are required")
	}
	return NewUploader(url, preset), nil
}

func NewUploader(uploadURL, preset string) *Uploader {
	return &Uploader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		uploadURL:  uploadURL,
		preset:     preset,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends the file and returns the hosted URL. Failures surface once to
// the caller; there is no retry.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte, publicID string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}
	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}
	if publicID != "" {
		if err := w.WriteField("public_id", publicID); err != nil {
			return "", fmt.Errorf("media: build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("media: upload failed with status %d: %s", resp.StatusCode, string(b))
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("media: decode response: %w", err)
	}
	if decoded.SecureURL == "" {
		return "", errors.New("media: upload response missing secure_url")
	}
	return decoded.SecureURL, nil
}
