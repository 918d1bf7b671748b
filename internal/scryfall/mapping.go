package scryfall

import (
	"strings"

	"mtgfactory/internal/card"
)

// Wire shapes of the Scryfall API. Nothing outside this file knows these names.

type errorObject struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

type imageURIs struct {
	Normal  string `json:"normal"`
	Large   string `json:"large"`
	ArtCrop string `json:"art_crop"`
}

func (i *imageURIs) empty() bool {
	return i == nil || (i.Normal == "" && i.Large == "" && i.ArtCrop == "")
}

// primary prefers the normal size and falls back to large
func (i *imageURIs) primary() string {
	if i == nil {
		return ""
	}
	if i.Normal != "" {
		return i.Normal
	}
	return i.Large
}

type cardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text"`
	Power      string     `json:"power"`
	Toughness  string     `json:"toughness"`
	Colors     []string   `json:"colors"`
	ImageURIs  *imageURIs `json:"image_uris"`
}

type cardObject struct {
	Object          string     `json:"object"`
	Name            string     `json:"name"`
	ManaCost        string     `json:"mana_cost"`
	TypeLine        string     `json:"type_line"`
	OracleText      string     `json:"oracle_text"`
	Power           string     `json:"power"`
	Toughness       string     `json:"toughness"`
	Colors          []string   `json:"colors"`
	ImageURIs       *imageURIs `json:"image_uris"`
	CardFaces       []cardFace `json:"card_faces"`
	SetName         string     `json:"set_name"`
	Set             string     `json:"set"`
	CollectorNumber string     `json:"collector_number"`
	Artist          string     `json:"artist"`
}

type cardList struct {
	Object     string       `json:"object"`
	TotalCards int          `json:"total_cards"`
	HasMore    bool         `json:"has_more"`
	NextPage   string       `json:"next_page"`
	Data       []cardObject `json:"data"`
}

// images returns the card's own images, or those of the first face that has
// some (double-faced cards carry images per face).
func (o cardObject) images() *imageURIs {
	if !o.ImageURIs.empty() {
		return o.ImageURIs
	}
	for _, f := range o.CardFaces {
		if !f.ImageURIs.empty() {
			return f.ImageURIs
		}
	}
	return nil
}

func (o cardObject) toCard() card.Card {
	c := card.Card{
		Name:       o.Name,
		ManaCost:   o.ManaCost,
		TypeLine:   o.TypeLine,
		OracleText: o.OracleText,
		Power:      o.Power,
		Toughness:  o.Toughness,
		Colors:     copyColors(o.Colors),
		ImageURL:   o.images().primary(),
	}

	if len(o.CardFaces) == 0 {
		return c
	}

	front := o.CardFaces[0]
	if c.ManaCost == "" {
		c.ManaCost = front.ManaCost
	}
	if c.TypeLine == "" {
		c.TypeLine = front.TypeLine
	}
	if c.Power == "" && c.Toughness == "" {
		c.Power, c.Toughness = front.Power, front.Toughness
	}
	if c.OracleText == "" {
		texts := make([]string, 0, len(o.CardFaces))
		for _, f := range o.CardFaces {
			if f.OracleText != "" {
				texts = append(texts, f.OracleText)
			}
		}
		c.OracleText = strings.Join(texts, "\n//\n")
	}
	if c.Colors == nil {
		c.Colors = faceColors(o.CardFaces)
	}
	return c
}

func (o cardObject) toArtVersion() (card.ArtVersion, bool) {
	imgs := o.images()
	if imgs.empty() {
		return card.ArtVersion{}, false
	}
	return card.ArtVersion{
		ImageURL:        imgs.primary(),
		ArtCropURL:      imgs.ArtCrop,
		SetName:         o.SetName,
		SetCode:         o.Set,
		CollectorNumber: o.CollectorNumber,
		Artist:          o.Artist,
	}, true
}

// artVersions maps one page of prints, dropping prints without images
func artVersions(prints []cardObject) []card.ArtVersion {
	out := make([]card.ArtVersion, 0, len(prints))
	for _, p := range prints {
		if v, ok := p.toArtVersion(); ok {
			out = append(out, v)
		}
	}
	return out
}

func copyColors(colors []string) []string {
	if colors == nil {
		return nil
	}
	out := make([]string, len(colors))
	copy(out, colors)
	return out
}

func faceColors(faces []cardFace) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range faces {
		for _, c := range f.Colors {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
