package recommender

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
)

// Upstream routes, relative to the configured base URL.
const (
	RouteTextToImage  = "/search/text-to-image"
	RouteImageToImage = "/search/image-to-image"
	RouteHealth       = "/health"
)

// Multipart field names of the image route.
const (
	FieldQueryImage = "query_image"
	FieldLimit      = "limit"
)

// TextBody is the JSON body of the text route.
type TextBody struct {
	QueryText string `json:"query_text"`
}

// Payload is a fully built upstream request.
// Exactly one of Text or Image is set.
type Payload struct {
	Mode  mode.Mode
	Route string

	Text *TextBody

	Image *request.Image
	Form  map[string]string
}

// Build validates the raw inputs and builds the upstream payload.
// Nothing is sent; validation failures are *domain.ValidationError.
func Build(queryText string, m mode.Mode, img *request.Image, filters filter.Set) (*Payload, error) {
	var (
		req request.Request
		err error
	)
	switch m {
	case mode.Text:
		req, err = request.NewText(queryText)
	case mode.Image:
		req, err = request.NewImage(img, filters)
	default:
		return nil, fmt.Errorf("unsupported search mode %q", m)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s search: %w", m, err)
	}
	return FromRequest(&req), nil
}

// FromRequest builds the payload of an already validated request.
func FromRequest(req *request.Request) *Payload {
	if req.Mode() == mode.Image {
		form := req.Filters().Fields()
		form[FieldLimit] = strconv.Itoa(request.ImageLimit)
		return &Payload{
			Mode:  mode.Image,
			Route: RouteImageToImage,
			Image: req.Image(),
			Form:  form,
		}
	}
	return &Payload{
		Mode:  mode.Text,
		Route: RouteTextToImage,
		Text:  &TextBody{QueryText: req.Text()},
	}
}

// RouteName returns a short label for metrics and logs.
func RouteName(route string) string {
	switch route {
	case RouteTextToImage:
		return "text-to-image"
	case RouteImageToImage:
		return "image-to-image"
	default:
		return "other"
	}
}
