package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a number the upstream API sends either as a JSON number or as a
// numeric string. Decoding never fails: anything that is not a finite number
// decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(parseNumber(data))
	return nil
}

// Float returns the value, or 0 when the field was absent.
func (a *Amount) Float() float64 {
	if a == nil {
		return 0
	}
	return float64(*a)
}

// NewAmount returns a pointer to v, convenient for building orders in code.
func NewAmount(v float64) *Amount {
	a := Amount(v)
	return &a
}

func parseNumber(data []byte) float64 {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FlexString holds identifiers the upstream API sends as numbers or strings.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// Cuisine is the restaurant cuisine, sent either as a comma-joined string or
// as a list of tags. It is re-encoded in the shape it arrived in.
type Cuisine struct {
	Text   string
	List   []string
	IsList bool
}

// CuisineText builds a Cuisine from a comma-joined string.
func CuisineText(s string) *Cuisine { return &Cuisine{Text: s} }

// CuisineList builds a Cuisine from a list of tags.
func CuisineList(tags ...string) *Cuisine { return &Cuisine{List: tags, IsList: true} }

func (c *Cuisine) UnmarshalJSON(data []byte) error {
	*c = Cuisine{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		c.Text = t
	case []any:
		c.IsList = true
		for _, e := range t {
			if s, ok := e.(string); ok {
				c.List = append(c.List, s)
			}
		}
	}
	return nil
}

func (c Cuisine) MarshalJSON() ([]byte, error) {
	if c.IsList {
		if c.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.List)
	}
	return json.Marshal(c.Text)
}

// Tags resolves the cuisine into a list of tags. A list is returned as sent;
// a string is split on commas, trimmed, and empty parts are dropped. The
// result may be empty.
func (c *Cuisine) Tags() []string {
	if c == nil {
		return nil
	}
	if c.IsList {
		return c.List
	}
	var tags []string
	for _, part := range strings.Split(c.Text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
