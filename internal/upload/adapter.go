// Package upload implements asset uploads with an offline fallback. A
// slot's file is validated locally, pushed to the remote image store, and
// on any remote failure encoded as a self-contained data URI so the form
// can still be completed. Both outcomes are plain URIs to downstream
// consumers.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/pctclasses/admission-form/internal/dto"
)

var (
	// ErrTooLarge indicates the file exceeded the slot's size limit.
	ErrTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrNotImage indicates the sniffed content is not an image.
	ErrNotImage = errors.New("file is not a valid image")
	// ErrFallbackFailed indicates neither remote upload nor local encoding
	// produced a usable URI.
	ErrFallbackFailed = errors.New("upload and local encoding both failed")
)

// Slot identifies one upload-bearing field of the form.
type Slot string

const (
	SlotPhoto            Slot = "photo"
	SlotStudentSignature Slot = "student-signature"
	SlotParentSignature  Slot = "parent-signature"
	SlotTenthMarklist    Slot = "tenth-marklist"
	SlotPlusTwoMarklist  Slot = "plus-two-marklist"
	SlotOfficeSignature  Slot = "office-signature"
)

const mb = 1024 * 1024

// slot size limits from the paper form's instructions.
var slotLimits = map[Slot]int64{
	SlotPhoto:            5 * mb,
	SlotStudentSignature: 2 * mb,
	SlotParentSignature:  2 * mb,
	SlotTenthMarklist:    3 * mb,
	SlotPlusTwoMarklist:  3 * mb,
	SlotOfficeSignature:  2 * mb,
}

// MaxBytes returns the slot's size limit.
func (s Slot) MaxBytes() int64 {
	if limit, ok := slotLimits[s]; ok {
		return limit
	}
	return 2 * mb
}

// Component is the tag sent to the image store for the slot.
func (s Slot) Component() string { return string(s) }

// ImageStore is the remote side of the adapter.
type ImageStore interface {
	UploadImage(ctx context.Context, fileName string, data []byte, component, existingFileID string) (dto.UploadResult, error)
}

// Asset is the outcome of one upload: a URI plus, for remote uploads, the
// store's file ID used for same-slot replacement.
type Asset struct {
	URI    string
	FileID string
	// Fallback marks a locally-encoded asset that cannot be evicted
	// server-side.
	Fallback bool
}

// Adapter uploads binary assets for the form's slots.
type Adapter struct {
	store  ImageStore
	logger zerolog.Logger
}

// NewAdapter constructs an upload adapter over the given store.
func NewAdapter(store ImageStore, logger zerolog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logger.With().Str("component", "upload_adapter").Logger(),
	}
}

// Upload validates the file and stores it remotely, falling back to a
// data URI on any remote failure. Size and type rejections are local and
// block only this file; the fallback path is silent apart from a warning.
func (a *Adapter) Upload(ctx context.Context, slot Slot, fileName string, data []byte, existingFileID string) (Asset, error) {
	if int64(len(data)) > slot.MaxBytes() {
		return Asset{}, fmt.Errorf("%w: limit %dMB", ErrTooLarge, slot.MaxBytes()/mb)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Asset{}, ErrNotImage
	}

	result, err := a.store.UploadImage(ctx, fileName, data, slot.Component(), existingFileID)
	if err != nil {
		a.logger.Warn().Err(err).
			Str("slot", string(slot)).
			Msg("remote upload failed, falling back to local encoding")

		uri := dataURI(mime.String(), data)
		if uri == "" {
			return Asset{}, ErrFallbackFailed
		}
		return Asset{URI: uri, Fallback: true}, nil
	}

	fileID := result.FileID
	if fileID == "" {
		fileID = FileID(result.URL)
	}

	a.logger.Info().
		Str("slot", string(slot)).
		Str("file_id", fileID).
		Msg("asset uploaded")

	return Asset{URI: result.URL, FileID: fileID}, nil
}

func dataURI(mime string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var fileIDPattern = regexp.MustCompile(`/([a-zA-Z0-9]+)\.[a-zA-Z0-9]+$`)

// FileID recovers the store's file identifier from a remote URI by
// matching the trailing path segment. Opaque to every other component.
func FileID(uri string) string {
	if uri == "" {
		return ""
	}
	m := fileIDPattern.FindStringSubmatch(uri)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsRemote reports whether a URI references the remote store rather than
// a local fallback encoding.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}
