package request

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/mode"
)

// pngHeader is the 8-byte PNG signature followed by an IHDR chunk start.
var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
}

func constraintOf(t *testing.T, err error) domain.Constraint {
	t.Helper()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Constraint
}

func TestNewText_Trims(t *testing.T) {
	inputs := map[string]string{
		"red dress":          "red dress",
		"  summer linen  ":   "summer linen",
		"\tblack boots\n":    "black boots",
		"floral  midi skirt": "floral  midi skirt",
	}
	for in, want := range inputs {
		r, err := NewText(in)
		if err != nil {
			t.Fatalf("NewText(%q): unexpected error: %v", in, err)
		}
		if r.Text() != want {
			t.Errorf("NewText(%q).Text() = %q, want %q", in, r.Text(), want)
		}
		if r.Mode() != mode.Text {
			t.Errorf("Mode() = %q, want text", r.Mode())
		}
	}
}

func TestNewText_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := NewText(in)
		if c := constraintOf(t, err); c != domain.ConstraintEmptyQuery {
			t.Errorf("NewText(%q) constraint = %q, want empty_query", in, c)
		}
	}
}

func TestNewImage_Valid(t *testing.T) {
	img := &Image{Filename: "look.png", ContentType: "image/png", Data: pngHeader}
	r, err := NewImage(img, filter.Set{Category: "All Categories", Style: "Edgy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Image {
		t.Errorf("Mode() = %q, want image", r.Mode())
	}
	if r.Image().Filename != "look.png" {
		t.Errorf("Filename = %q", r.Image().Filename)
	}
	if r.Filters().Category != "" {
		t.Errorf("Category = %q, want empty (sentinel)", r.Filters().Category)
	}
	if r.Filters().Style != "Edgy" {
		t.Errorf("Style = %q, want Edgy", r.Filters().Style)
	}
}

func TestNewImage_Missing(t *testing.T) {
	_, err := NewImage(nil, filter.Set{})
	if c := constraintOf(t, err); c != domain.ConstraintMissingImage {
		t.Errorf("constraint = %q, want missing_image", c)
	}

	_, err = NewImage(&Image{ContentType: "image/png"}, filter.Set{})
	if c := constraintOf(t, err); c != domain.ConstraintMissingImage {
		t.Errorf("constraint = %q, want missing_image", c)
	}
}

func TestNewImage_WrongType(t *testing.T) {
	tests := []string{"application/pdf", "text/plain", "video/mp4", "imagex/png"}
	for _, ct := range tests {
		_, err := NewImage(&Image{Filename: "f", ContentType: ct, Data: []byte("data")}, filter.Set{})
		if c := constraintOf(t, err); c != domain.ConstraintType {
			t.Errorf("%s: constraint = %q, want type", ct, c)
		}
	}
}

func TestNewImage_TooLarge(t *testing.T) {
	data := make([]byte, MaxImageBytes+1)
	_, err := NewImage(&Image{Filename: "big.jpg", ContentType: "image/jpeg", Data: data}, filter.Set{})
	if c := constraintOf(t, err); c != domain.ConstraintSize {
		t.Errorf("constraint = %q, want size", c)
	}
}

func TestNewImage_ExactlyMaxSize(t *testing.T) {
	data := make([]byte, MaxImageBytes)
	if _, err := NewImage(&Image{Filename: "ok.jpg", ContentType: "image/jpeg", Data: data}, filter.Set{}); err != nil {
		t.Fatalf("10 MiB image should be accepted: %v", err)
	}
}

func TestNewImage_TypeCheckedBeforeSize(t *testing.T) {
	data := make([]byte, MaxImageBytes+1)
	_, err := NewImage(&Image{Filename: "big.pdf", ContentType: "application/pdf", Data: data}, filter.Set{})
	if c := constraintOf(t, err); c != domain.ConstraintType {
		t.Errorf("constraint = %q, want type", c)
	}
}

func TestNewImage_SniffsMissingContentType(t *testing.T) {
	r, err := NewImage(&Image{Data: pngHeader}, filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Image().ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", r.Image().ContentType)
	}
	if r.Image().Filename != "query.png" {
		t.Errorf("Filename = %q, want query.png", r.Image().Filename)
	}

	_, err = NewImage(&Image{Data: []byte("plain text body")}, filter.Set{})
	if c := constraintOf(t, err); c != domain.ConstraintType {
		t.Errorf("constraint = %q, want type", c)
	}
}

func TestNewImage_KeepsBytes(t *testing.T) {
	r, err := NewImage(&Image{Filename: "a.png", ContentType: "image/png", Data: pngHeader}, filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(r.Image().Data, pngHeader) {
		t.Error("image bytes changed")
	}
	if r.Image().Size() != int64(len(pngHeader)) {
		t.Errorf("Size() = %d", r.Image().Size())
	}
}
