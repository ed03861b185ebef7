package models

import (
	"io"

	"github.com/goccy/go-json"
)

// Report is the evaluation of every class sum and index over one profile.
type Report struct {
	Quantity string       `json:"quantity,omitempty"`
	Rows     int          `json:"rows"`
	Excluded int          `json:"excluded"`
	Total    *float64     `json:"total"`
	Classes  []ClassSum   `json:"classes"`
	Indices  []IndexValue `json:"indices"`
}

// ClassSum holds a nil Value when the sum cannot be formed, which the
// profile prevents by excluding non-finite quantities.
type ClassSum struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// IndexValue holds a nil Value when the index is undefined for the profile,
// for instance a ratio over a class that is absent.
type IndexValue struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Value       *float64 `json:"value"`
}

// Index returns the named index.
func (r Report) Index(name string) (IndexValue, bool) {
	for _, v := range r.Indices {
		if v.Name == name {
			return v, true
		}
	}
	return IndexValue{}, false
}

// Class returns the named class sum.
func (r Report) Class(name string) (ClassSum, bool) {
	for _, c := range r.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ClassSum{}, false
}

// Encode writes r as indented JSON.
func (r Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
