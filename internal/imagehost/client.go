package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"learnhub/internal/model"
	"learnhub/pkg/apierror"
)

// Client talks to the external image host's REST API. Pixel work
// (resizing, format conversion) happens on the host, never in process.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadRequest struct {
	Image  string `json:"image"`
	Folder string `json:"folder"`
	Width  int    `json:"width,omitempty"`
}

type uploadResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

// Upload sends a base64 data URL and returns the hosted asset.
func (c *Client) Upload(ctx context.Context, image string, folder string) (*model.Media, error) {
	payload, err := json.Marshal(uploadRequest{Image: image, Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierror.Upstream("image host unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apierror.Upstream(fmt.Sprintf("image host returned %d", resp.StatusCode))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	return &model.Media{PublicID: result.PublicID, URL: result.URL}, nil
}

// Destroy removes a hosted asset. A 404 from the host is treated as
// already gone.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	endpoint := c.baseURL + "/destroy/" + url.PathEscape(publicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return apierror.Upstream("image host unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return apierror.Upstream(fmt.Sprintf("image host returned %d", resp.StatusCode))
	}

	return nil
}
