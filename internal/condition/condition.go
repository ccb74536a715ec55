package condition

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/bitemp/internal/queryir"
	"github.com/roach88/bitemp/internal/schema"
)

// DefaultBoost is the boost of a condition that names none.
const DefaultBoost = 1.0

// Condition is a search condition that resolves against a schema.
//
// This is a sealed interface - only types in this package implement it.
type Condition interface {
	// Query returns the predicate matching this condition.
	Query(s *schema.Schema) (queryir.Predicate, error)

	conditionNode()
}

// conditionValidate checks struct tags on condition inputs.
// Initialized in init() with custom validators.
var conditionValidate *validator.Validate

func init() {
	conditionValidate = validator.New()

	// Rejects strings that are empty after trimming whitespace.
	_ = conditionValidate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// boostOrDefault resolves an optional boost.
func boostOrDefault(b *float64) float64 {
	if b == nil {
		return DefaultBoost
	}
	return *b
}

// Float returns a pointer to f, for optional boosts.
func Float(f float64) *float64 {
	return &f
}
