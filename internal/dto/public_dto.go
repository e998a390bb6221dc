package dto

import "encoding/json"

// Envelope is the common response structure of the public API:
// {success, message, data}.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UploadResult is the data payload of POST /public/upload-image.
type UploadResult struct {
	URL      string `json:"url"`
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

// SearchResult is the data payload of GET /public/search-image.
type SearchResult struct {
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
	FileID   string `json:"fileId"`
}

// ApplicationRecord is a stored or just-submitted application. The field
// set is open-ended (legacy alias keys included), so the record stays a
// decoded-JSON map and typed access goes through helpers.
type ApplicationRecord map[string]any

// Str returns the string value at key, "" when absent or differently
// shaped.
func (r ApplicationRecord) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// FirstStr returns the first non-empty string among keys; dual-key lookups
// for legacy aliases prefer the structured name by listing it first.
func (r ApplicationRecord) FirstStr(keys ...string) string {
	for _, k := range keys {
		if s := r.Str(k); s != "" {
			return s
		}
	}
	return ""
}

// Bool reports whether the value at key is a true boolean.
func (r ApplicationRecord) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}
