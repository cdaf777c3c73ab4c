package models

import (
	"encoding/json"
	"fmt"
)

// Product is owned by the upstream catalog service. This gateway never
// mutates product records except through the checkout stock update.
type Product struct {
	ID          StringID `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// StringID tolerates both numeric and string ids from the upstream catalog
// (json-server assigns numbers, seeded data sometimes uses strings) and
// normalizes them to a string for comparisons.
type StringID string

func (s *StringID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StringID(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*s = StringID(n.String())
	return nil
}

func (s StringID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s StringID) String() string {
	return string(s)
}
