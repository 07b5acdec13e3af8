package mode

// Mode selects the upstream search route.
type Mode string

// Search mode constants.
const (
	// Text searches product images by a free-text description.
	Text Mode = "text"
	// Image searches product images by a query image.
	Image Mode = "image"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Text || m == Image
}
