package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageLoader resolves an image reference from a stored record into raw
// bytes and a gofpdf image type ("PNG", "JPG" or "GIF"). References are
// either data URIs produced by the upload fallback or remote URLs.
type ImageLoader func(uri string) ([]byte, string, error)

// ErrUnsupportedImage is returned for references the loader cannot place
// in a document.
var ErrUnsupportedImage = errors.New("unsupported image reference")

const maxInlineImageSize = 10 << 20

var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
	"image/gif":  "GIF",
}

// DataURIImageLoader decodes base64 data URIs only. Remote URLs are
// rejected, keeping rendering fully offline.
func DataURIImageLoader(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("%w: %.32q", ErrUnsupportedImage, uri)
	}
	return decodeDataURI(uri)
}

// HTTPImageLoader decodes data URIs and additionally fetches http(s)
// references with the given client.
func HTTPImageLoader(client *http.Client) ImageLoader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return func(uri string) ([]byte, string, error) {
		if strings.HasPrefix(uri, "data:") {
			return decodeDataURI(uri)
		}
		if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
			return nil, "", fmt.Errorf("%w: %.32q", ErrUnsupportedImage, uri)
		}

		resp, err := client.Get(uri)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineImageSize))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read image body: %w", err)
		}

		imageType, ok := imageTypes[mediaType(resp.Header.Get("Content-Type"))]
		if !ok {
			// Content-Type from storage services is unreliable; fall
			// back to the URL extension.
			imageType = typeFromExtension(uri)
		}
		if imageType == "" {
			return nil, "", fmt.Errorf("%w: content type %q", ErrUnsupportedImage, resp.Header.Get("Content-Type"))
		}
		return data, imageType, nil
	}
}

func noImages(uri string) ([]byte, string, error) {
	return nil, "", ErrUnsupportedImage
}

func decodeDataURI(uri string) ([]byte, string, error) {
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: malformed data uri", ErrUnsupportedImage)
	}

	mt, _, _ := strings.Cut(meta, ";")
	imageType, supported := imageTypes[strings.ToLower(strings.TrimSpace(mt))]
	if !supported {
		return nil, "", fmt.Errorf("%w: media type %q", ErrUnsupportedImage, mt)
	}
	if !strings.Contains(meta, "base64") {
		return nil, "", fmt.Errorf("%w: data uri is not base64", ErrUnsupportedImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image data: %w", err)
	}
	return data, imageType, nil
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func typeFromExtension(uri string) string {
	trimmed, _, _ := strings.Cut(uri, "?")
	switch {
	case strings.HasSuffix(trimmed, ".png"):
		return "PNG"
	case strings.HasSuffix(trimmed, ".jpg"), strings.HasSuffix(trimmed, ".jpeg"):
		return "JPG"
	case strings.HasSuffix(trimmed, ".gif"):
		return "GIF"
	default:
		return ""
	}
}
