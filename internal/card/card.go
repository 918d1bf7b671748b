package card

import (
	"fmt"
	"strings"
)

// Card is a snapshot of one resolved card. Empty strings and nil slices mean
// the card has no such attribute (instants have no power or toughness,
// colorless cards have no colors).
type Card struct {
	Name       string
	ManaCost   string
	TypeLine   string
	OracleText string
	Power      string
	Toughness  string
	Colors     []string
	ImageURL   string
}

// ArtVersion is one distinct printed art of a card
type ArtVersion struct {
	ImageURL        string
	ArtCropURL      string
	SetName         string
	SetCode         string
	CollectorNumber string
	Artist          string
}

// HasImage reports whether the version carries any image at all
func (a ArtVersion) HasImage() bool {
	return a.ImageURL != "" || a.ArtCropURL != ""
}

// WithImages returns the versions that have at least one image
func WithImages(versions []ArtVersion) []ArtVersion {
	out := make([]ArtVersion, 0, len(versions))
	for _, v := range versions {
		if v.HasImage() {
			out = append(out, v)
		}
	}
	return out
}

// PowerToughness returns "P/T", using "?" for a missing half
func (c Card) PowerToughness() string {
	p, t := c.Power, c.Toughness
	if p == "" {
		p = "?"
	}
	if t == "" {
		t = "?"
	}
	return fmt.Sprintf("%s/%s", p, t)
}

// HasStats reports whether the card has power or toughness
func (c Card) HasStats() bool {
	return c.Power != "" || c.Toughness != ""
}

// IsCreature returns true if the type line names a creature
func (c Card) IsCreature() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "creature")
}

// ColorString joins the color codes, e.g. "UR"
func (c Card) ColorString() string {
	return strings.Join(c.Colors, "")
}
