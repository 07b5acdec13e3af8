// Package stylesearch is a Go client for a fashion recommendation service.
//
// It validates a text or image query, sends exactly one request to the
// service and turns the returned recommendations into display items with
// brand, price, style and occasion filled in.
//
//	client, _ := stylesearch.New(stylesearch.WithBaseURL("https://rec.example.com/prod"))
//	items, err := client.SearchText(ctx, "navy linen shirt")
//
//	img := stylesearch.Image{Filename: "look.jpg", Data: data}
//	items, err = client.SearchImage(ctx, img, stylesearch.Filters{Category: "Outerwear"})
//
// Invalid input fails with an error matching ErrValidation before any network
// call. Service failures match ErrUpstream; use errors.As with *HTTPError or
// *NetworkError for details.
package stylesearch
