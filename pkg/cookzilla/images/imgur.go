package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const imgurUploadURL = "https://api.imgur.com/3/image"

// Imgur uploads images anonymously against a registered client id.
type Imgur struct {
	clientID   string
	httpClient *http.Client
	uploadURL  string
}

// NewImgur creates an imgur-backed store.
func NewImgur(clientID string) *Imgur {
	return &Imgur{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		uploadURL:  imgurUploadURL,
	}
}

type imgurResponse struct {
	Data struct {
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

func (i *Imgur) Upload(ctx context.Context, r io.Reader, filename string) (*Image, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Client-ID "+i.clientID)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imgur upload failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed imgurResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("imgur response unreadable: %w", err)
	}
	if !parsed.Success || parsed.Data.Link == "" {
		return nil, fmt.Errorf("imgur upload rejected with status %d", parsed.Status)
	}

	return &Image{URL: parsed.Data.Link, DeleteHandle: parsed.Data.DeleteHash}, nil
}
