// Package entities contains domain entities used across the application.
package entities

// Item is one vocabulary word from the content catalog.
// Items are read-only: the scheduling engine never mutates them.
type Item struct {
	ID          string `json:"id"`          // stable identifier, key of the progress map
	Category    string `json:"category"`    // category tag, resolved to a difficulty tier
	Text        string `json:"text"`        // word shown to the learner
	Translation string `json:"translation"` // expected answer
}

// Category groups items and carries the difficulty tier used by the unlock gate.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"` // tier, 1..N
}

// CategoryDifficulty maps a category id to its difficulty tier.
type CategoryDifficulty map[string]int
