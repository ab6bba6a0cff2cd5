package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item is a single record of the remote collection.
// Every field is assigned by the server; the client only holds copies.
type Item struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identifier key.
// Numeric identifiers are kept as their literal text.
func (it *Item) UnmarshalJSON(b []byte) error {
	type wire struct {
		UnderscoreID json.RawMessage `json:"_id"`
		ID           json.RawMessage `json:"id"`
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		CreatedAt    string          `json:"createdAt"`
	}
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id, err := idText(w.UnderscoreID)
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = idText(w.ID); err != nil {
			return err
		}
	}
	*it = Item{ID: id, Name: w.Name, Description: w.Description, CreatedAt: w.CreatedAt}
	return nil
}

func idText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("item id must be a string or a number, got %s", raw)
	}
	return n.String(), nil
}

var createdLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// Created parses CreatedAt. Values without a zone are read as local time.
// ok is false when the server sent something we cannot read as a timestamp.
func (it Item) Created() (t time.Time, ok bool) {
	s := strings.TrimSpace(it.CreatedAt)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Draft is an unsaved item as typed by the user.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Valid reports whether the draft can be submitted.
func (d Draft) Valid() bool { return strings.TrimSpace(d.Name) != "" }
