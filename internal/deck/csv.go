package deck

import (
	"io"

	"github.com/gocarina/gocsv"

	"mtgfactory/internal/card"
)

type entryRow struct {
	Kind           string `csv:"kind"`
	Name           string `csv:"name"`
	ManaCost       string `csv:"mana_cost"`
	TypeLine       string `csv:"type_line"`
	PowerToughness string `csv:"power_toughness"`
	ImageURL       string `csv:"image_url"`
}

type artRow struct {
	CardName        string `csv:"card_name"`
	SetCode         string `csv:"set_code"`
	SetName         string `csv:"set_name"`
	CollectorNumber string `csv:"collector_number"`
	Artist          string `csv:"artist"`
	ImageURL        string `csv:"image_url"`
	ArtCropURL      string `csv:"art_crop_url"`
}

// WriteCSV writes the deck entries with a header row
func WriteCSV(w io.Writer, d *Deck) error {
	entries := d.Entries()
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		pt := ""
		if e.Card.HasStats() {
			pt = e.Card.PowerToughness()
		}
		rows = append(rows, entryRow{
			Kind:           string(e.Kind),
			Name:           e.Card.Name,
			ManaCost:       e.Card.ManaCost,
			TypeLine:       e.Card.TypeLine,
			PowerToughness: pt,
			ImageURL:       e.DisplayImage(),
		})
	}
	return gocsv.Marshal(rows, w)
}

// WriteArtCSV writes the art versions of one card with a header row
func WriteArtCSV(w io.Writer, cardName string, versions []card.ArtVersion) error {
	rows := make([]artRow, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, artRow{
			CardName:        cardName,
			SetCode:         v.SetCode,
			SetName:         v.SetName,
			CollectorNumber: v.CollectorNumber,
			Artist:          v.Artist,
			ImageURL:        v.ImageURL,
			ArtCropURL:      v.ArtCropURL,
		})
	}
	return gocsv.Marshal(rows, w)
}
