package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	ProductCount int    `json:"product_count,omitempty"`
}

// Identifier is the value used to filter products by this category:
// the slug when present, else the name, else the id.
func (c Category) Identifier() string {
	if c.Slug != "" {
		return c.Slug
	}
	if c.Name != "" {
		return c.Name
	}
	return strconv.FormatInt(c.ID, 10)
}

type CategoryRefKind int

const (
	CategoryRefNone CategoryRefKind = iota
	CategoryRefText
	CategoryRefNumber
	CategoryRefObject
)

// CategoryRef is the category of a product as the API sends it: a bare
// string, a bare numeric id, an embedded object or nothing at all.
type CategoryRef struct {
	Kind CategoryRefKind

	// Value holds the raw text of a string or number reference.
	Value string

	ID   string
	Name string
	Slug string
}

// CategoryKey is the canonical, lower-cased form of a CategoryRef.
type CategoryKey struct {
	ID   string
	Name string
	Slug string
}

func TextRef(v string) CategoryRef {
	return CategoryRef{Kind: CategoryRefText, Value: v}
}

func NumberRef(id int64) CategoryRef {
	return CategoryRef{Kind: CategoryRefNumber, Value: strconv.FormatInt(id, 10)}
}

func ObjectRef(c Category) CategoryRef {
	return CategoryRef{
		Kind: CategoryRefObject,
		ID:   strconv.FormatInt(c.ID, 10),
		Name: c.Name,
		Slug: c.Slug,
	}
}

func (r CategoryRef) IsZero() bool {
	return r.Kind == CategoryRefNone
}

// Normalize lower-cases and trims the reference into a CategoryKey.
// A bare number becomes the id; a bare string becomes the name.
func (r CategoryRef) Normalize() CategoryKey {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	switch r.Kind {
	case CategoryRefText:
		return CategoryKey{Name: norm(r.Value)}
	case CategoryRefNumber:
		return CategoryKey{ID: norm(r.Value)}
	case CategoryRefObject:
		return CategoryKey{ID: norm(r.ID), Name: norm(r.Name), Slug: norm(r.Slug)}
	default:
		return CategoryKey{}
	}
}

// Label is a human readable form of the reference.
func (r CategoryRef) Label() string {
	switch r.Kind {
	case CategoryRefText, CategoryRefNumber:
		return r.Value
	case CategoryRefObject:
		if r.Name != "" {
			return r.Name
		}
		if r.Slug != "" {
			return r.Slug
		}
		return r.ID
	default:
		return ""
	}
}

func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = CategoryRef{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*r = TextRef(s)
		}
		return nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		r.Kind = CategoryRefObject
		r.ID = firstScalar(fields, "id", "pk")
		r.Name = firstScalar(fields, "name", "title")
		r.Slug = firstScalar(fields, "slug")
		return nil
	case '[', 't', 'f':
		// arrays and booleans carry no usable category
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = CategoryRef{Kind: CategoryRefNumber, Value: n.String()}
		return nil
	}
}

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case CategoryRefText:
		return json.Marshal(r.Value)
	case CategoryRefNumber:
		return []byte(r.Value), nil
	case CategoryRefObject:
		obj := map[string]any{"name": r.Name}
		if id, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
			obj["id"] = id
		} else if r.ID != "" {
			obj["id"] = r.ID
		}
		if r.Slug != "" {
			obj["slug"] = r.Slug
		}
		return json.Marshal(obj)
	default:
		return []byte("null"), nil
	}
}

func firstScalar(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if v := scalarText(raw); v != "" {
			return v
		}
	}
	return ""
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n', 't', 'f':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	}
}
