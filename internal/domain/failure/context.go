package failure

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Context is what is known about the entity involved in a failure
type Context struct {
	EntityID   string
	EntityName string
	Quantity   *decimal.Decimal
	Field      string
	Value      string
	Operation  string
}

var (
	uuidPattern      = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
	numericIDPattern = regexp.MustCompile(`\b\d{5,}\b`)
	quantityPattern  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:units?|unidades?|uds?)\b`)
	quotedPattern    = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|(?:^|[^\w])'([^']+)'`)
	fieldPattern     = regexp.MustCompile(`(?i)\bfield\s+["']?([a-z_][a-z0-9_]*)`)
	requiredPattern  = regexp.MustCompile(`(?i)["']([a-z_][a-z0-9_]*)["']\s+is required`)
)

// ExtractContext mines an ID, a quantity, a quoted name and a field name out of a raw message
func ExtractContext(message string) Context {
	var ctx Context

	// quantities first so "12345 units" is not taken for an ID
	rest := message
	if m := quantityPattern.FindStringSubmatchIndex(message); m != nil {
		raw := strings.ReplaceAll(message[m[2]:m[3]], ",", ".")
		if q, err := decimal.NewFromString(raw); err == nil {
			ctx.Quantity = &q
		}
		rest = message[:m[0]] + " " + message[m[1]:]
	}

	if id := uuidPattern.FindString(rest); id != "" {
		ctx.EntityID = id
	} else if id := numericIDPattern.FindString(rest); id != "" {
		ctx.EntityID = id
	}

	for _, m := range quotedPattern.FindAllStringSubmatch(message, -1) {
		name := firstNonEmpty(m[1:]...)
		if name == "" || name == ctx.EntityID || uuidPattern.MatchString(name) {
			continue
		}
		ctx.EntityName = name
		break
	}

	if m := fieldPattern.FindStringSubmatch(message); m != nil {
		ctx.Field = strings.ToLower(m[1])
	} else if m := requiredPattern.FindStringSubmatch(message); m != nil {
		ctx.Field = strings.ToLower(m[1])
	}

	return ctx
}

// Merge fills the empty fields of c from mined. Values already in c win.
func (c Context) Merge(mined Context) Context {
	if c.EntityID == "" {
		c.EntityID = mined.EntityID
	}
	if c.EntityName == "" {
		c.EntityName = mined.EntityName
	}
	if c.Quantity == nil {
		c.Quantity = mined.Quantity
	}
	if c.Field == "" {
		c.Field = mined.Field
	}
	if c.Value == "" {
		c.Value = mined.Value
	}
	if c.Operation == "" {
		c.Operation = mined.Operation
	}
	return c
}

// QuantityOrZero returns the mined quantity, or zero
func (c Context) QuantityOrZero() decimal.Decimal {
	if c.Quantity == nil {
		return decimal.Zero
	}
	return *c.Quantity
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
