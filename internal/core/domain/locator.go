package domain

import "math"

// HrefNoLocation is the sentinel resource href the renderer reports before
// it has settled on a real location. Positions carrying it are never
// persisted.
const HrefNoLocation = "about:blank"

// progressionTolerance is the near-equality window for TotalProgression.
// Two locators within this distance in the same resource are treated as
// the same place. This is a heuristic, not an identity scheme: two
// genuinely distinct nearby locations in a very long resource can collide.
const progressionTolerance = 0.001

// Locator describes a position inside a publication. It is an immutable
// value produced by the renderer; the core never fabricates locators
// beyond round-tripping them through persistence.
type Locator struct {
	// ResourceHref identifies the resource within the publication.
	ResourceHref string `json:"resourceHref"`

	// ResourceTitle is the display title of the resource, if known.
	ResourceTitle string `json:"resourceTitle,omitempty"`

	// TotalProgression is the overall position in [0,1] across the
	// whole publication.
	TotalProgression float64 `json:"totalProgression"`

	// WithinResource is the position in [0,1] inside ResourceHref,
	// if the renderer reports one.
	WithinResource *float64 `json:"withinResource,omitempty"`

	// PageIndex is the renderer's page number for this position,
	// if the renderer paginates.
	PageIndex *int `json:"pageIndex,omitempty"`
}

// HasRealLocation returns true if the locator points at an actual
// resource rather than the pre-layout sentinel.
func (l Locator) HasRealLocation() bool {
	return l.ResourceHref != "" && l.ResourceHref != HrefNoLocation
}

// NearEqual reports whether two locators describe the same place within
// the progression tolerance. It is reflexive and symmetric.
func (l Locator) NearEqual(other Locator) bool {
	if l.ResourceHref != other.ResourceHref {
		return false
	}
	return math.Abs(l.TotalProgression-other.TotalProgression) < progressionTolerance
}

// ClampedProgression returns TotalProgression clamped to [0,1].
func (l Locator) ClampedProgression() float64 {
	switch {
	case l.TotalProgression < 0:
		return 0
	case l.TotalProgression > 1:
		return 1
	default:
		return l.TotalProgression
	}
}
