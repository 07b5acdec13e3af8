package request

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxImageBytes is the largest accepted query image (10 MiB).
	MaxImageBytes = 10 * 1024 * 1024
	// ImageLimit is the result count requested for image searches.
	ImageLimit = 20
)

const imageMIMEPrefix = "image/"

// Image is an uploaded query image.
type Image struct {
	Filename    string
	ContentType string // declared type; sniffed from Data when empty
	Data        []byte
}

// Size returns the image size in bytes.
func (i *Image) Size() int64 { return int64(len(i.Data)) }

// Request is a validated search query.
type Request struct {
	searchMode mode.Mode
	text       string
	image      *Image
	filters    filter.Set
}

// NewText validates a text query. The query is trimmed; an empty result is rejected.
func NewText(text string) (Request, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		return Request{}, domain.NewValidationError(domain.ConstraintEmptyQuery, "search query is empty")
	}
	return Request{searchMode: mode.Text, text: q}, nil
}

// NewImage validates an image query. The type is checked before the size.
func NewImage(img *Image, filters filter.Set) (Request, error) {
	if img == nil || len(img.Data) == 0 {
		return Request{}, domain.NewValidationError(domain.ConstraintMissingImage, "query image is required")
	}

	contentType := strings.TrimSpace(img.ContentType)
	if contentType == "" {
		contentType = mimetype.Detect(img.Data).String()
	}
	if !strings.HasPrefix(strings.ToLower(contentType), imageMIMEPrefix) {
		return Request{}, domain.NewValidationError(domain.ConstraintType,
			fmt.Sprintf("unsupported file type %q, upload an image (JPG, PNG, GIF, etc.)", contentType))
	}
	if img.Size() > MaxImageBytes {
		return Request{}, domain.NewValidationError(domain.ConstraintSize,
			fmt.Sprintf("image is %d bytes, must be at most %d bytes (10MB)", img.Size(), MaxImageBytes))
	}

	filename := img.Filename
	if filename == "" {
		filename = "query"
		if m := mimetype.Lookup(contentType); m != nil {
			filename += m.Extension()
		}
	}

	return Request{
		searchMode: mode.Image,
		image: &Image{
			Filename:    filename,
			ContentType: contentType,
			Data:        img.Data,
		},
		filters: filters.Normalized(),
	}, nil
}

// Mode returns the upstream route selector.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Text returns the trimmed query text (text mode only).
func (r *Request) Text() string { return r.text }

// Image returns the validated image (image mode only).
func (r *Request) Image() *Image { return r.image }

// Filters returns the normalized facet filters (image mode only).
func (r *Request) Filters() filter.Set { return r.filters }
