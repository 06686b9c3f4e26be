package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind distinguishes the variants a cell can take
type Kind uint8

const (
	// KindNotApplicable means the column does not apply to this row at all.
	// It is the zero value so a missing map key reads as not applicable.
	KindNotApplicable Kind = iota
	// KindSuppressed means the value exists in principle but is unknown,
	// unreported or suppressed upstream.
	KindSuppressed
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNotApplicable:
		return "not_applicable"
	case KindSuppressed:
		return "suppressed"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single cell of a Row
type Value struct {
	kind Kind
	num  float64
	text string
}

// Num wraps a number. NaN and infinities are treated as suppressed data.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Suppressed()
	}
	return Value{kind: KindNumber, num: f}
}

// Str wraps an identifying string value such as a FIPS code or group label
func Str(s string) Value {
	return Value{kind: KindText, text: s}
}

// Suppressed returns the "known missing" value
func Suppressed() Value {
	return Value{kind: KindSuppressed}
}

// NotApplicable returns the "does not apply" value
func NotApplicable() Value {
	return Value{}
}

func (v Value) Kind() Kind            { return v.kind }
func (v Value) IsNumber() bool        { return v.kind == KindNumber }
func (v Value) IsText() bool          { return v.kind == KindText }
func (v Value) IsSuppressed() bool    { return v.kind == KindSuppressed }
func (v Value) IsNotApplicable() bool { return v.kind == KindNotApplicable }

// IsMissing is true for both absent variants
func (v Value) IsMissing() bool {
	return v.kind == KindSuppressed || v.kind == KindNotApplicable
}

// Float returns the numeric payload. Text cells holding a number are
// converted, which lets raw CSV columns be used without a coercion pass.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Text returns the string payload, formatting numbers when needed
func (v Value) Text() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return ""
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.text == o.text
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber, KindText:
		return v.Text()
	case KindSuppressed:
		return "null"
	}
	return "undefined"
}

// MarshalJSON encodes suppressed cells as null. Not applicable cells are
// dropped by Row.MarshalJSON and never reach this method from a Row.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes null as suppressed, numbers and strings as themselves
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// FromInterface converts a decoded scalar into a Value
func FromInterface(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Suppressed()
	case float64:
		return Num(t)
	case float32:
		return Num(float64(t))
	case int:
		return Num(float64(t))
	case int64:
		return Num(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Str(t.String())
		}
		return Num(f)
	case string:
		return Str(t)
	case bool:
		if t {
			return Num(1)
		}
		return Num(0)
	case []byte:
		return Str(string(t))
	case Value:
		return t
	}
	return Suppressed()
}
