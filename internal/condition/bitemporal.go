package condition

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/bitemp/internal/bitemporal"
	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
	"github.com/roach88/bitemp/internal/schema"
)

// Bitemporal matches record versions of a bi-temporal field against a
// four-bound window.
//
// Bounds are raw values parsed by the field's mapper: nil takes the default
// (MIN for "from" bounds, MAX for "to" bounds).
type Bitemporal struct {
	Field     string   `json:"field" yaml:"field" validate:"notblank"`
	VtFrom    any      `json:"vt_from,omitempty" yaml:"vt_from,omitempty"`
	VtTo      any      `json:"vt_to,omitempty" yaml:"vt_to,omitempty"`
	TtFrom    any      `json:"tt_from,omitempty" yaml:"tt_from,omitempty"`
	TtTo      any      `json:"tt_to,omitempty" yaml:"tt_to,omitempty"`
	Operation string   `json:"operation,omitempty" yaml:"operation,omitempty"`
	Boost     *float64 `json:"boost,omitempty" yaml:"boost,omitempty" validate:"omitempty,gt=0"`
}

func (*Bitemporal) conditionNode() {}

// Validate checks the inputs that need no schema.
func (c *Bitemporal) Validate() error {
	if err := conditionValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Field":
				return &Error{Code: ErrCodeMissingField, Message: "field name is required"}
			case "Boost":
				return &Error{
					Code:    ErrCodeInvalidBoost,
					Message: fmt.Sprintf("boost must be positive, got %v", boostOrDefault(c.Boost)),
					Field:   c.Field,
				}
			}
		}
		return fmt.Errorf("validate bitemporal condition: %w", err)
	}
	if _, err := ir.ParseRelation(c.Operation); err != nil {
		return newInvalidOperation(c.Operation)
	}
	return nil
}

// Window resolves the condition into a planning window.
//
// All boundary checks happen here: blank field, unknown operation,
// non-positive boost, a field that is not bi-temporal, and unparseable
// bounds.
func (c *Bitemporal) Window(s *schema.Schema) (bitemporal.Window, error) {
	if err := c.Validate(); err != nil {
		return bitemporal.Window{}, err
	}
	rel, _ := ir.ParseRelation(c.Operation)

	m, ok := s.Mapper(c.Field)
	if !ok {
		return bitemporal.Window{}, newUnsupportedField(c.Field, "is not mapped")
	}
	bm, ok := m.(*schema.BitemporalMapper)
	if !ok {
		return bitemporal.Window{}, newUnsupportedField(c.Field, fmt.Sprintf("has type %s, bitemporal mapper required", m.Type()))
	}

	bounds := []struct {
		name string
		raw  any
		def  ir.Instant
	}{
		{"vt_from", c.VtFrom, ir.Min()},
		{"vt_to", c.VtTo, ir.Max()},
		{"tt_from", c.TtFrom, ir.Min()},
		{"tt_to", c.TtTo, ir.Max()},
	}
	parsed := make([]ir.Instant, len(bounds))
	for i, b := range bounds {
		inst, err := bm.Instant(b.raw, b.def)
		if err != nil {
			return bitemporal.Window{}, &Error{
				Code:    ErrCodeInvalidInstant,
				Message: fmt.Sprintf("%s of field %q", b.name, c.Field),
				Field:   c.Field,
				Err:     err,
			}
		}
		parsed[i] = inst
	}

	return bitemporal.Window{
		Field:    c.Field,
		VtFrom:   parsed[0],
		VtTo:     parsed[1],
		TtFrom:   parsed[2],
		TtTo:     parsed[3],
		Relation: rel,
		Boost:    boostOrDefault(c.Boost),
	}, nil
}

// Plan resolves the window and plans it over the shape index.
func (c *Bitemporal) Plan(s *schema.Schema) (*bitemporal.Plan, error) {
	w, err := c.Window(s)
	if err != nil {
		return nil, err
	}
	return bitemporal.NewPlan(w, bitemporal.ShapeCoverage{})
}

// Query implements Condition.
func (c *Bitemporal) Query(s *schema.Schema) (queryir.Predicate, error) {
	plan, err := c.Plan(s)
	if err != nil {
		return nil, err
	}
	return plan.Predicate, nil
}
