// Package client talks to the institute's public API: application
// submission and retrieval plus the image store endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pctclasses/admission-form/internal/dto"
)

// PublicClient calls the public admission endpoints under one base URL.
// No per-request timeout is applied; failures surface only as transport
// errors or non-success envelopes.
type PublicClient struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New constructs a client for the given API base URL.
func New(baseURL string, logger zerolog.Logger) *PublicClient {
	return &PublicClient{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  logger.With().Str("component", "public_client").Logger(),
	}
}

// APIError carries the server's message for a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (c *PublicClient) do(req *http.Request) (dto.Envelope, error) {
	correlationID := uuid.NewString()
	req.Header.Set("X-Correlation-ID", correlationID)

	resp, err := c.http.Do(req)
	if err != nil {
		return dto.Envelope{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.Envelope{}, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope dto.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return dto.Envelope{}, &APIError{Status: resp.StatusCode}
		}
		return dto.Envelope{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("correlation_id", correlationID).
			Str("path", req.URL.Path).
			Msg("api call rejected")
		return dto.Envelope{}, &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	return envelope, nil
}

// SubmitApplication posts a shaped application payload and returns the
// stored record from the response.
func (c *PublicClient) SubmitApplication(ctx context.Context, payload map[string]any) (dto.ApplicationRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/public/application-form", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	envelope, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var record dto.ApplicationRecord
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			return nil, fmt.Errorf("failed to decode application record: %w", err)
		}
	}

	c.logger.Info().Msg("application submitted")
	return record, nil
}

// GetApplication fetches a stored application for edit mode.
func (c *PublicClient) GetApplication(ctx context.Context, id string) (dto.ApplicationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/public/application-forms/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	envelope, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var record dto.ApplicationRecord
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode application record: %w", err)
	}

	return record, nil
}

// UploadImage sends a multipart upload with the component tag and, when
// replacing a slot, the previous file ID so the backend can evict it.
func (c *PublicClient) UploadImage(ctx context.Context, fileName string, data []byte, component, existingFileID string) (dto.UploadResult, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return dto.UploadResult{}, err
	}
	if _, err := part.Write(data); err != nil {
		return dto.UploadResult{}, err
	}
	if component != "" {
		if err := writer.WriteField("component", component); err != nil {
			return dto.UploadResult{}, err
		}
	}
	if existingFileID != "" {
		if err := writer.WriteField("existingFileId", existingFileID); err != nil {
			return dto.UploadResult{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return dto.UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/public/upload-image", buf)
	if err != nil {
		return dto.UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	envelope, err := c.do(req)
	if err != nil {
		return dto.UploadResult{}, err
	}

	var result dto.UploadResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return dto.UploadResult{}, fmt.Errorf("failed to decode upload result: %w", err)
	}

	return result, nil
}

// DeleteImage removes a stored file by ID. Defined by the API; the upload
// adapter's remove path deliberately does not call it.
func (c *PublicClient) DeleteImage(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/public/delete-image/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

// SearchImage looks up a stored file by ID or name.
func (c *PublicClient) SearchImage(ctx context.Context, imageID string) (dto.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/public/search-image?imageId="+url.QueryEscape(imageID), nil)
	if err != nil {
		return dto.SearchResult{}, err
	}

	envelope, err := c.do(req)
	if err != nil {
		return dto.SearchResult{}, err
	}

	var result dto.SearchResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return dto.SearchResult{}, fmt.Errorf("failed to decode search result: %w", err)
	}

	return result, nil
}
