// Package model contains the source records consumed by the projection engine
package model

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Key identifies a source item. Keys are compared by value; numeric keys are
// produced with IntKey so "7" and 7 address the same record.
type Key string

// IntKey converts a numeric identifier to a Key
func IntKey(n int64) Key {
	return Key(strconv.FormatInt(n, 10))
}

// Item represents a single record of a source collection
type Item struct {
	ID       Key       `json:"id" msgpack:"id"`
	ParentID Key       `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Node     bool      `json:"node,omitempty" msgpack:"node,omitempty"`
	Text     string    `json:"text" msgpack:"text"`
	Metadata *Metadata `json:"metadata,omitempty" msgpack:"metadata,omitempty"`

	// ReadOnly marks a read-only checkbox: the item can not change its
	// selection state through gestures.
	ReadOnly bool `json:"readonly,omitempty" msgpack:"readonly,omitempty"`
	// Locked items can not be dragged.
	Locked bool `json:"locked,omitempty" msgpack:"locked,omitempty"`
}

// Metadata holds rich information about an item
type Metadata struct {
	Tags       []string          `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Notes      string            `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Created    time.Time         `json:"created" msgpack:"created"`
	Modified   time.Time         `json:"modified" msgpack:"modified"`
}

// NewItem creates a new item with a generated ID
func NewItem(text string) *Item {
	now := time.Now()
	return &Item{
		ID:   generateID(),
		Text: text,
		Metadata: &Metadata{
			Attributes: make(map[string]string),
			Created:    now,
			Modified:   now,
		},
	}
}

// NewNode creates a new node item placed under parent
func NewNode(text string, parent Key) *Item {
	item := NewItem(text)
	item.Node = true
	item.ParentID = parent
	return item
}

// Field returns the value of a named field. Well-known names are id, parent,
// text, notes and tags; anything else is looked up in the attributes.
func (i *Item) Field(name string) (string, bool) {
	switch name {
	case "id":
		return string(i.ID), true
	case "parent":
		return string(i.ParentID), i.ParentID != ""
	case "text":
		return i.Text, true
	}
	if i.Metadata == nil {
		return "", false
	}
	switch name {
	case "notes":
		return i.Metadata.Notes, i.Metadata.Notes != ""
	case "tags":
		return strings.Join(i.Metadata.Tags, ","), len(i.Metadata.Tags) > 0
	}
	v, ok := i.Metadata.Attributes[name]
	return v, ok
}

// SetAttribute sets an attribute and bumps the modification time
func (i *Item) SetAttribute(name, value string) {
	if i.Metadata == nil {
		i.Metadata = &Metadata{Created: time.Now()}
	}
	if i.Metadata.Attributes == nil {
		i.Metadata.Attributes = make(map[string]string)
	}
	i.Metadata.Attributes[name] = value
	i.Metadata.Modified = time.Now()
}

// HasTag reports whether the item carries tag (case-insensitive)
func (i *Item) HasTag(tag string) bool {
	if i.Metadata == nil {
		return false
	}
	for _, t := range i.Metadata.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func generateID() Key {
	return Key("item_" + time.Now().Format("20060102150405") + "_" + randomString(8))
}

func randomString(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = chars[rand.Intn(len(chars))]
	}
	return string(result)
}
