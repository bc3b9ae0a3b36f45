package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadFile pins arbitrary content (review JSON or a photo) under the
// given filename and returns the resulting content hash. The filename
// becomes the pin's metadata name, which is what the review-file filter
// matches on, so review documents must be uploaded as 0x<address>.json.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("upload copy: %w", err)
	}

	meta, _ := json.Marshal(map[string]string{"name": filename})
	if err := form.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("upload form close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(c.newAPIRequest(req))
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if !statusOK(resp.StatusCode) {
		return "", httpError("upload", resp.StatusCode, raw)
	}

	var res struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("upload decode: %w body=%s", err, string(raw))
	}
	if res.IpfsHash == "" {
		return "", fmt.Errorf("upload: response has no IpfsHash, body=%s", string(raw))
	}
	return res.IpfsHash, nil
}
