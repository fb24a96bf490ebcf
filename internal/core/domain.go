package core

import (
	"encoding/json"
	"errors"
	"time"
)

type (
	// Period identifies one month of waste records.
	Period struct {
		Month int
		Year  int
	}

	Department struct {
		Name string `json:"departement_name"`
	}

	Category struct {
		Name string `json:"category_name"`
	}

	// CategoryWeight is one category entry nested in a WasteRecord.
	CategoryWeight struct {
		Category    *Category `json:"category"`
		TotalWeight float64   `json:"total_weight"`
	}

	// WasteRecord is a single monthly entry returned by the records API.
	// Department and the nested categories are optional on the wire.
	WasteRecord struct {
		Department  *Department      `json:"departement"`
		Categories  []CategoryWeight `json:"categories"`
		TotalWeight float64          `json:"total_weight"`

		raw json.RawMessage
	}

	// ShapedRow is a flattened (name, weight) pair ready for plotting.
	ShapedRow struct {
		Name        string
		TotalWeight float64
	}
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidYear  = errors.New("invalid year")
)

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

// UnmarshalJSON keeps the original payload so records can be echoed back
// to clients exactly as the upstream API sent them.
func (r *WasteRecord) UnmarshalJSON(data []byte) error {
	type plain WasteRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = WasteRecord(p)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r WasteRecord) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain WasteRecord
	return json.Marshal(plain(r))
}

// RenderKind names an output produced from a month of records.
type RenderKind string

const (
	KindBar           RenderKind = "bar"
	KindPie           RenderKind = "pie"
	KindPieCategories RenderKind = "pie-categories"
	KindWorkbook      RenderKind = "xlsx"
)

// RenderEvent records the outcome of one render or export request.
type RenderEvent struct {
	ID         string     `json:"id"`
	Kind       RenderKind `json:"kind"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
	Bytes      int        `json:"bytes"`
	DurationMs int64      `json:"duration_ms"`
	Timestamp  time.Time  `json:"timestamp"`
}
