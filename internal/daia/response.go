// Package daia models the subset of a DAIA JSON response that the
// availability checks inspect. DAIA servers in the wild disagree about the
// types of the availability fields, so decoding is deliberately permissive:
// any JSON value is accepted and reduced to a truthiness decision.
package daia

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Flag holds an availability field of unknown JSON type. Servers return
// booleans, strings, numbers or service lists here depending on vendor.
type Flag struct {
	raw json.RawMessage
}

// UnmarshalJSON stores the raw value without interpreting it.
func (f *Flag) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}

// Truthy reports whether the field carries a positive value. Absent fields,
// null, false, zero numbers and the empty string are falsy; everything else
// (including non-empty arrays and objects) is truthy.
func (f Flag) Truthy() bool {
	raw := bytes.TrimSpace(f.raw)
	switch {
	case len(raw) == 0:
		return false
	case bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		return false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	}

	if n, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return n != 0
	}

	// Arrays, objects, true and unparseable scalars all count as stated.
	return true
}

// Item is a single copy of a document held by an institution.
type Item struct {
	Available   Flag `json:"available"`
	Unavailable Flag `json:"unavailable"`
}

// Stated reports whether the item carries an explicit availability verdict,
// positive or negative.
func (i Item) Stated() bool {
	return i.Available.Truthy() || i.Unavailable.Truthy()
}

// Document is one catalog record in a DAIA response.
type Document struct {
	Item []Item `json:"item"`
}

// Response is the top-level DAIA JSON structure.
type Response struct {
	Document []Document `json:"document"`
}

// FirstItem returns document[0].item[0], or a zero Item when any link of
// that path is missing. It never panics on short slices.
func (r Response) FirstItem() Item {
	if len(r.Document) == 0 || len(r.Document[0].Item) == 0 {
		return Item{}
	}
	return r.Document[0].Item[0]
}

// Parse decodes body into a Response. Callers that want the "malformed JSON
// means no item found" behaviour can ignore the error and use the zero
// Response it leaves behind.
func Parse(body []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
