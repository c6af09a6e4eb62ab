// Package model holds the content records shared by the loaders, the
// accordion core and the front-ends.
package model

import "strings"

// Question is one question/answer record as delivered by a content source.
type Question struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Item is a loaded Question bound to its position in the list.
// Items are immutable once loaded; Index equals the slice position and is the
// navigation order.
type Item struct {
	Question string
	Answer   string
	Index    int
}

// Items converts questions to items, assigning indexes in order.
func Items(questions []Question) []Item {
	items := make([]Item, len(questions))
	for i, q := range questions {
		items[i] = Item{
			Question: strings.TrimSpace(q.Question),
			Answer:   strings.TrimSpace(q.Answer),
			Index:    i,
		}
	}
	return items
}
