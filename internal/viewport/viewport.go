// Package viewport derives scroll-driven visibility flags.
package viewport

// Threshold is a scroll offset in CSS pixels past which an element shows
type Threshold float64

const (
	// NavbarSolid switches the navbar to its opaque background
	NavbarSolid Threshold = 50
	// FloatingCTA reveals the floating call-to-action button
	FloatingCTA Threshold = 500
)

// Visible reports whether scrollY is strictly past the threshold
func (t Threshold) Visible(scrollY float64) bool {
	return scrollY > float64(t)
}
