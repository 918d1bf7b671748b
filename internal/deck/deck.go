// Package deck keeps the small per-session decks built from looked-up cards.
package deck

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mtgfactory/internal/card"
	"mtgfactory/internal/theme"
)

// DefaultMaxEntries is the deck size used when none is configured
const DefaultMaxEntries = 60

var (
	ErrDeckFull      = errors.New("deck is full")
	ErrEntryNotFound = errors.New("deck entry not found")
	ErrInvalidKind   = errors.New("card kind must be creature or spell")
	ErrNoCard        = errors.New("card has no name")
)

// Kind says which slot of the theme a card fills
type Kind string

const (
	KindCreature Kind = "creature"
	KindSpell    Kind = "spell"
)

// ParseKind accepts "creature" or "spell" in any case
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCreature:
		return KindCreature, nil
	case KindSpell:
		return KindSpell, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Entry is one card in a deck, with an optional art override
type Entry struct {
	ID          string
	Kind        Kind
	Card        card.Card
	ArtImageURL string
	AddedAt     time.Time
}

// DisplayImage is the chosen art if any, else the card's own image
func (e Entry) DisplayImage() string {
	if e.ArtImageURL != "" {
		return e.ArtImageURL
	}
	return e.Card.ImageURL
}

// Counts summarizes a deck
type Counts struct {
	Creatures int
	Spells    int
	Total     int
}

// Deck is safe for concurrent use
type Deck struct {
	mu         sync.RWMutex
	theme      theme.Theme
	maxEntries int
	entries    []Entry
}

// New creates an empty deck. maxEntries <= 0 means DefaultMaxEntries.
func New(t theme.Theme, maxEntries int) *Deck {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Deck{theme: t, maxEntries: maxEntries}
}

func (d *Deck) Theme() theme.Theme {
	return d.theme
}

func (d *Deck) MaxEntries() int {
	return d.maxEntries
}

// Entries returns a copy in insertion order
func (d *Deck) Entries() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Add appends a card
func (d *Deck) Add(kind Kind, c card.Card) (Entry, error) {
	if kind != KindCreature && kind != KindSpell {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if strings.TrimSpace(c.Name) == "" {
		return Entry{}, ErrNoCard
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.entries) >= d.maxEntries {
		return Entry{}, fmt.Errorf("%w: %s deck holds %d cards", ErrDeckFull, d.theme.ID, d.maxEntries)
	}

	e := Entry{
		ID:      d.newID(),
		Kind:    kind,
		Card:    c,
		AddedAt: time.Now(),
	}
	d.entries = append(d.entries, e)
	return e, nil
}

// Remove deletes the entry with this id
func (d *Deck) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	return nil
}

// SelectArt overrides the image shown for an entry. An empty url restores
// the card's own image.
func (d *Deck) SelectArt(id, imageURL string) (Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	d.entries[i].ArtImageURL = strings.TrimSpace(imageURL)
	return d.entries[i], nil
}

// Entry returns one entry by id
func (d *Deck) Entry(id string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.index(id)
	if i < 0 {
		return Entry{}, false
	}
	return d.entries[i], true
}

func (d *Deck) Counts() Counts {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var c Counts
	for _, e := range d.entries {
		switch e.Kind {
		case KindCreature:
			c.Creatures++
		case KindSpell:
			c.Spells++
		}
	}
	c.Total = len(d.entries)
	return c
}

// index must be called with mu held
func (d *Deck) index(id string) int {
	for i, e := range d.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// newID must be called with mu held
func (d *Deck) newID() string {
	var id string
	for i := 0; i < 10; i++ {
		id = generateEntryID()
		if d.index(id) < 0 {
			break
		}
	}
	return id
}

// generateEntryID returns 8 lowercase alphanumerics
func generateEntryID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	rand.Read(b)
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}

// Set is the pair of decks owned by one session
type Set struct {
	Red  *Deck
	Blue *Deck
}

func NewSet(maxEntries int) *Set {
	return &Set{
		Red:  New(theme.Red, maxEntries),
		Blue: New(theme.Blue, maxEntries),
	}
}

// Deck returns the deck for a theme id
func (s *Set) Deck(themeID string) (*Deck, error) {
	t, err := theme.ByID(themeID)
	if err != nil {
		return nil, err
	}
	if t.ID == theme.Red.ID {
		return s.Red, nil
	}
	return s.Blue, nil
}
