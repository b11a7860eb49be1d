package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// CreateProduct creates a catalog product. The backend takes product fields
// and the optional image in one multipart form.
func (c *Client) CreateProduct(ctx context.Context, fields map[string]string, image io.Reader, imageName string) (*models.Product, error) {
	return c.uploadProduct(ctx, http.MethodPost, "/api/admin/products", fields, image, imageName)
}

// UpdateProduct updates a catalog product, optionally replacing its image.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, fields map[string]string, image io.Reader, imageName string) (*models.Product, error) {
	path := fmt.Sprintf("/api/admin/products/%d", productID)
	return c.uploadProduct(ctx, http.MethodPut, path, fields, image, imageName)
}

func (c *Client) uploadProduct(ctx context.Context, method, path string, fields map[string]string, image io.Reader, imageName string) (*models.Product, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, fmt.Errorf("failed to copy image data: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendCall(ctx, method, path, start, false)
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.metrics.RecordBackendCall(ctx, method, path, start, success)

	if !success {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}
	return &product, nil
}
