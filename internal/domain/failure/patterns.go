package failure

import (
	"regexp"
	"strings"
)

// Factory builds a typed error for a matched pattern
type Factory func(raw error, ctx Context) (Error, error)

// Pattern maps messages matching Matcher to the error built by Factory.
// Matchers are tested against the lowercased message.
type Pattern struct {
	Name     string
	Matcher  *regexp.Regexp
	Factory  Factory
	Priority int
}

// Default pattern priorities. Specific outranks generic.
const (
	PriorityStockAvailable = 10
	PriorityReferenced     = 9
	PriorityDuplicate      = 8
	PriorityNotFound       = 6
	PriorityConnection     = 4
	PriorityValidation     = 2
)

func anyOf(alternatives ...string) *regexp.Regexp {
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}

var defaultPatterns = []Pattern{
	{
		Name:     "stock_available",
		Priority: PriorityStockAvailable,
		Matcher: anyOf(
			`units? in stock`,
			`(has|with|still has)\s+(\d[\d.,]*\s+)?(units?|stock)`,
			`stock (available|remaining|on hand)`,
			`remaining stock`,
			`tiene (stock|existencias)`,
			`stock actual`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			return NewStockAvailable(ctx.EntityID, ctx.EntityName, ctx.QuantityOrZero(), raw), nil
		},
	},
	{
		Name:     "referenced",
		Priority: PriorityReferenced,
		Matcher: anyOf(
			`foreign key`,
			`referenced by`,
			`still referenced`,
			`in use by`,
			`has (associated|dependent) (materials|records)`,
			`tiene materiales asociados`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			field := ctx.Field
			if field == "" {
				field = "reference"
			}
			e := NewValidationFailure(field, ctx.EntityID, raw)
			e.UserMessage = "This record is still used by other records"
			e.SuggestedAction = "Reassign or remove the records that use it, then try again"
			return e, nil
		},
	},
	{
		Name:     "duplicate",
		Priority: PriorityDuplicate,
		Matcher: anyOf(
			`duplicate`,
			`already exists`,
			`unique constraint`,
			`ya existe`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			field := ctx.Field
			if field == "" {
				field = "code"
			}
			value := ctx.Value
			if value == "" {
				value = ctx.EntityName
			}
			e := NewValidationFailure(field, value, raw)
			e.UserMessage = "A record with this value already exists"
			e.SuggestedAction = "Use a different value or edit the existing record"
			return e, nil
		},
	},
	{
		Name:     "not_found",
		Priority: PriorityNotFound,
		Matcher: anyOf(
			`not found`,
			`does not exist`,
			`no such`,
			`no encontrad[oa]`,
			`no existe`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			return NewEntityNotFound(ctx.EntityID, raw), nil
		},
	},
	{
		Name:     "connection",
		Priority: PriorityConnection,
		Matcher: anyOf(
			`connection`,
			`connect`,
			`timeout`,
			`timed out`,
			`deadline exceeded`,
			`unreachable`,
			`refused`,
			`network`,
			`unavailable`,
			`database is locked`,
			`broken pipe`,
			`bridge closed`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			return NewConnectionFailure(raw.Error(), raw), nil
		},
	},
	{
		Name:     "validation",
		Priority: PriorityValidation,
		Matcher: anyOf(
			`invalid`,
			`required`,
			`validation`,
			`must be`,
			`cannot be`,
			`too long`,
			`exceeds`,
			`out of range`,
			`negative`,
			`obligatorio`,
		),
		Factory: func(raw error, ctx Context) (Error, error) {
			return NewValidationFailure(ctx.Field, ctx.Value, raw), nil
		},
	},
}

// DefaultPatterns returns a copy of the built-in pattern table
func DefaultPatterns() []Pattern {
	patterns := make([]Pattern, len(defaultPatterns))
	copy(patterns, defaultPatterns)
	return patterns
}
