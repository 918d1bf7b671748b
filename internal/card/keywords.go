package card

import "strings"

var creatureKeywords = []string{
	"Haste", "Flying", "First strike", "Double strike", "Deathtouch",
	"Trample", "Vigilance", "Lifelink", "Menace", "Reach",
}

var spellKeywords = []string{"Instant", "Sorcery", "Flash", "Split second", "Storm"}

// CreatureKeywords lists the evergreen creature keywords found in the rules
// text, or "None".
func CreatureKeywords(text string) string {
	found := matchKeywords(creatureKeywords, text)
	if len(found) == 0 {
		return "None"
	}
	return strings.Join(found, ", ")
}

// SpellKeywords lists spell keywords found in the rules text or type line.
// It falls back to the type line, then to "Unknown".
func SpellKeywords(text, typeLine string) string {
	found := matchKeywords(spellKeywords, text+"\n"+typeLine)
	if len(found) > 0 {
		return strings.Join(found, ", ")
	}
	if typeLine != "" {
		return typeLine
	}
	return "Unknown"
}

func matchKeywords(keywords []string, text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}
