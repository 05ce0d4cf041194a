// Package param turns the stringly-typed tool arguments into validated,
// typed values. Each tool declares its inputs as a rule table; Parse walks
// the table once, so range checks, enum membership, defaults and
// cross-field requirements live in data instead of per-handler code.
package param

import (
	"strconv"
	"time"

	"discord-mcp/internal/apperr"
)

type Type int

const (
	String Type = iota
	Int
	Bool
	Timestamp
	IntEnum
)

// Source yields the raw string for a named argument, "" when absent. All
// tool parameters travel as strings; typing happens here.
type Source interface {
	Get(name string) string
}

// SourceFunc adapts a lookup function to Source.
type SourceFunc func(name string) string

func (f SourceFunc) Get(name string) string { return f(name) }

// Rule describes one parameter. Rules are evaluated in declaration order;
// RequiredWhen may reference values parsed by earlier rules.
type Rule struct {
	Name     string
	Type     Type
	Required bool

	// Default is stored when an optional parameter is absent. Leave nil to
	// omit absent parameters from the result entirely.
	Default any

	// Min/Max are inclusive bounds for Int rules, enforced when Bounded.
	Min, Max int64
	Bounded  bool
	// Positive demands a value strictly above zero without stating an
	// upper bound in the failure message.
	Positive bool
	// Hint is restated alongside the bounds, e.g. "7 days".
	Hint string

	// Enum lists the legal values for IntEnum rules; EnumHint enumerates
	// them for the failure message, e.g. "1 (Stage), 2 (Voice), or 3 (External)".
	Enum     []int64
	EnumHint string

	// RequiredWhen makes an optional parameter conditionally required. It
	// returns the triggering condition in plain language, or "" when the
	// parameter may stay absent.
	RequiredWhen func(v Values) string
}

// Values is the typed result bag. Getters return zero values for absent
// names; use Has to distinguish.
type Values map[string]any

func (v Values) Has(name string) bool { _, ok := v[name]; return ok }

func (v Values) Str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

// Parse evaluates rules against src. The first violation aborts with a
// typed failure; there is no silent coercion of out-of-range values.
func Parse(src Source, rules []Rule) (Values, error) {
	v := make(Values, len(rules))
	for i := range rules {
		r := &rules[i]
		raw := src.Get(r.Name)

		if raw == "" {
			if r.Required {
				return nil, apperr.InvalidArgument("%s cannot be empty", r.Name)
			}
			if r.RequiredWhen != nil {
				if cond := r.RequiredWhen(v); cond != "" {
					return nil, apperr.Validation("%s is required %s", r.Name, cond)
				}
			}
			if r.Default != nil {
				v[r.Name] = r.Default
			}
			continue
		}

		val, err := parseOne(r, raw)
		if err != nil {
			return nil, err
		}
		v[r.Name] = val
	}
	return v, nil
}

func parseOne(r *Rule, raw string) (any, error) {
	switch r.Type {
	case String:
		return raw, nil

	case Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.InvalidArgument("%s must be an integer, got %q", r.Name, raw)
		}
		if r.Positive && n <= 0 {
			return nil, apperr.Validation("%s must be a positive integer", r.Name)
		}
		if r.Bounded && (n < r.Min || n > r.Max) {
			if r.Hint != "" {
				return nil, apperr.Validation("%s must be between %d and %d (%s)", r.Name, r.Min, r.Max, r.Hint)
			}
			return nil, apperr.Validation("%s must be between %d and %d", r.Name, r.Min, r.Max)
		}
		return n, nil

	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.InvalidArgument("%s must be true or false, got %q", r.Name, raw)
		}
		return b, nil

	case Timestamp:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.Validation("%s must be an ISO-8601 timestamp with offset (e.g. 2024-05-01T18:00:00+02:00), got %q", r.Name, raw)
		}
		return t, nil

	case IntEnum:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.InvalidArgument("%s must be an integer, got %q", r.Name, raw)
		}
		for _, allowed := range r.Enum {
			if n == allowed {
				return n, nil
			}
		}
		return nil, apperr.Validation("%s must be %s", r.Name, r.EnumHint)

	default:
		return nil, apperr.InvalidArgument("%s has an unsupported parameter type", r.Name)
	}
}
