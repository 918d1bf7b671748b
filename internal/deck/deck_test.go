package deck

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtgfactory/internal/card"
	"mtgfactory/internal/theme"
)

var (
	goblinGuide = card.Card{
		Name: "Goblin Guide", ManaCost: "{R}", TypeLine: "Creature — Goblin Scout",
		Power: "2", Toughness: "2", ImageURL: "https://img.example/gg.jpg",
	}
	lightningBolt = card.Card{
		Name: "Lightning Bolt", ManaCost: "{R}", TypeLine: "Instant",
		ImageURL: "https://img.example/bolt.jpg",
	}
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Creature ")
	require.NoError(t, err)
	assert.Equal(t, KindCreature, k)

	k, err = ParseKind("spell")
	require.NoError(t, err)
	assert.Equal(t, KindSpell, k)

	_, err = ParseKind("land")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestDeck_AddAndCounts(t *testing.T) {
	d := New(theme.Red, 0)
	assert.Equal(t, DefaultMaxEntries, d.MaxEntries())

	e1, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)
	_, err = d.Add(KindSpell, lightningBolt)
	require.NoError(t, err)
	_, err = d.Add(KindSpell, lightningBolt)
	require.NoError(t, err)

	assert.Len(t, e1.ID, 8)
	assert.Equal(t, Counts{Creatures: 1, Spells: 2, Total: 3}, d.Counts())

	entries := d.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Goblin Guide", entries[0].Card.Name)
	assert.NotEqual(t, entries[1].ID, entries[2].ID)
}

func TestDeck_AddRejectsInvalidInput(t *testing.T) {
	d := New(theme.Blue, 5)

	_, err := d.Add(Kind("land"), goblinGuide)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = d.Add(KindSpell, card.Card{})
	assert.ErrorIs(t, err, ErrNoCard)

	assert.Equal(t, 0, d.Counts().Total)
}

func TestDeck_Full(t *testing.T) {
	d := New(theme.Red, 2)
	_, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)
	_, err = d.Add(KindSpell, lightningBolt)
	require.NoError(t, err)

	_, err = d.Add(KindSpell, lightningBolt)
	assert.ErrorIs(t, err, ErrDeckFull)
	assert.Equal(t, 2, d.Counts().Total)
}

func TestDeck_Remove(t *testing.T) {
	d := New(theme.Red, 10)
	e, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)

	require.NoError(t, d.Remove(e.ID))
	assert.Empty(t, d.Entries())
	assert.ErrorIs(t, d.Remove(e.ID), ErrEntryNotFound)
}

func TestDeck_SelectArt(t *testing.T) {
	d := New(theme.Red, 10)
	e, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/gg.jpg", e.DisplayImage())

	updated, err := d.SelectArt(e.ID, "https://img.example/gg-zen.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/gg-zen.jpg", updated.DisplayImage())

	got, ok := d.Entry(e.ID)
	require.True(t, ok)
	assert.Equal(t, "https://img.example/gg-zen.jpg", got.DisplayImage())

	updated, err = d.SelectArt(e.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/gg.jpg", updated.DisplayImage())

	_, err = d.SelectArt("missing", "https://x")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDeck_EntriesIsACopy(t *testing.T) {
	d := New(theme.Red, 10)
	_, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)

	entries := d.Entries()
	entries[0].ArtImageURL = "changed"

	assert.Empty(t, d.Entries()[0].ArtImageURL)
}

func TestDeck_ConcurrentAdds(t *testing.T) {
	d := New(theme.Blue, 50)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Add(KindSpell, card.Card{Name: fmt.Sprintf("Spell %d", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, d.Counts().Total)
}

func TestSet_Deck(t *testing.T) {
	s := NewSet(10)

	red, err := s.Deck("RED")
	require.NoError(t, err)
	assert.Same(t, s.Red, red)

	blue, err := s.Deck("blue")
	require.NoError(t, err)
	assert.Same(t, s.Blue, blue)

	_, err = s.Deck("green")
	assert.ErrorIs(t, err, theme.ErrUnknownTheme)
}

func TestWriteCSV(t *testing.T) {
	d := New(theme.Red, 10)
	e, err := d.Add(KindCreature, goblinGuide)
	require.NoError(t, err)
	_, err = d.Add(KindSpell, lightningBolt)
	require.NoError(t, err)
	_, err = d.SelectArt(e.ID, "https://img.example/gg-alt.jpg")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, d))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "kind,name,mana_cost,type_line,power_toughness,image_url", lines[0])
	assert.Equal(t, "creature,Goblin Guide,{R},Creature — Goblin Scout,2/2,https://img.example/gg-alt.jpg", lines[1])
	assert.Equal(t, "spell,Lightning Bolt,{R},Instant,,https://img.example/bolt.jpg", lines[2])
}

func TestWriteArtCSV(t *testing.T) {
	versions := []card.ArtVersion{
		{SetCode: "m10", SetName: "Magic 2010", CollectorNumber: "146", Artist: "Christopher Moeller", ImageURL: "https://n.jpg", ArtCropURL: "https://c.jpg"},
		{SetCode: "2xm", SetName: "Double Masters, Foil", CollectorNumber: "129", Artist: "Christopher Rush", ImageURL: "https://n2.jpg"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteArtCSV(&buf, "Lightning Bolt", versions))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "card_name,set_code,set_name,collector_number,artist,image_url,art_crop_url", lines[0])
	assert.Equal(t, "Lightning Bolt,m10,Magic 2010,146,Christopher Moeller,https://n.jpg,https://c.jpg", lines[1])
	assert.Equal(t, `Lightning Bolt,2xm,"Double Masters, Foil",129,Christopher Rush,https://n2.jpg,`, lines[2])
}
