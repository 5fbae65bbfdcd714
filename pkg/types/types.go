// Package types holds the domain types shared between the pipeline,
// the HTTP handlers and the upstream client.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind describes how the raw request text was captured.
type Kind string

const (
	KindText  Kind = "text"
	KindVoice Kind = "voice"
	KindPhoto Kind = "photo"
)

func (k Kind) Validate() error {
	switch k {
	case KindText, KindVoice, KindPhoto:
		return nil
	}
	return fmt.Errorf("invalid input kind %q", string(k))
}

// Category is the request category shown to volunteers.
type Category string

const (
	CategoryMedical        Category = "medical"
	CategoryTransportation Category = "transportation"
	CategoryShopping       Category = "shopping"
	CategoryHousehold      Category = "household"
	CategoryCompanionship  Category = "companionship"
	CategoryTechnology     Category = "technology"
	CategoryOther          Category = "other"
	CategoryGeneral        Category = "general"
)

// FoldCategory lower-cases a raw category value and falls back to
// "general" when the value is empty.
func FoldCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return CategoryGeneral
	}
	return Category(c)
}

// Urgency is the normalized urgency label.
type Urgency string

const (
	UrgencyUrgent    Urgency = "Urgent"
	UrgencyMedium    Urgency = "Medium"
	UrgencyNonUrgent Urgency = "Non-Urgent"
)

// PeopleCount is either a concrete number of helpers or the sentinel
// "multiple" (4+ in the upstream schema). The zero value marshals as 1.
type PeopleCount struct {
	Count    int
	Multiple bool
}

func People(n int) PeopleCount { return PeopleCount{Count: n} }

// PeopleMultiple is the "multiple" sentinel.
var PeopleMultiple = PeopleCount{Multiple: true}

func (p PeopleCount) String() string {
	if p.Multiple {
		return "multiple"
	}
	if p.Count <= 0 {
		return "1"
	}
	return strconv.Itoa(p.Count)
}

// IsDefault reports whether the value is the default single helper.
func (p PeopleCount) IsDefault() bool {
	return !p.Multiple && (p.Count == 1 || p.Count == 0)
}

func (p PeopleCount) MarshalJSON() ([]byte, error) {
	if p.Multiple {
		return json.Marshal("multiple")
	}
	n := p.Count
	if n <= 0 {
		n = 1
	}
	return json.Marshal(n)
}

// UnmarshalJSON accepts a number, a numeric string, or the literal
// "multiple". Anything unparseable becomes 1.
func (p *PeopleCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PeopleCount{Count: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = PeopleCount{Count: 1}
		return nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "multiple" {
		*p = PeopleMultiple
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*p = PeopleCount{Count: n}
		return nil
	}
	*p = PeopleCount{Count: 1}
	return nil
}

// NormalizedRequest is the structured, classified form of a free-text
// help request. Callers treat a returned value as immutable.
type NormalizedRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     Category    `json:"category"`
	UrgencyLevel Urgency     `json:"urgencyLevel"`
	PeopleNeeded PeopleCount `json:"peopleNeeded"`
	TaskTypes    []string    `json:"taskTypes"`
}

// Task is an open help request as seen by the prioritizer.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     Category  `json:"category"`
	UrgencyLevel Urgency   `json:"urgencyLevel"`
	Distance     string    `json:"distance,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TaskSummary is the projection of a Task sent upstream for ranking and
// hashed into the prioritization fingerprint. Any change to these
// fields, including distance drift, produces a distinct fingerprint.
type TaskSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Urgency   Urgency   `json:"urgency"`
	Category  Category  `json:"category"`
	Distance  string    `json:"distance"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summarize projects tasks into their ranking summaries, preserving
// order. Tasks without a distance report "unknown".
func Summarize(tasks []Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		distance := t.Distance
		if distance == "" {
			distance = "unknown"
		}
		out = append(out, TaskSummary{
			ID:        t.ID,
			Title:     t.Title,
			Urgency:   t.UrgencyLevel,
			Category:  t.Category,
			Distance:  distance,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

// ErrEmptyInput is the only error the pipeline propagates to callers:
// there is no way to derive a draft from empty text.
var ErrEmptyInput = errors.New("request input is empty")
