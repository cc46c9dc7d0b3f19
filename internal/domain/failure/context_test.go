package failure

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContext(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantID   string
		wantName string
		wantQty  string
		wantFld  string
	}{
		{
			name:     "stock message",
			message:  `cannot delete material "Cement": 25 units in stock`,
			wantName: "Cement",
			wantQty:  "25",
		},
		{
			name:    "uuid id",
			message: "material 3f2c1a9e-8b7d-4c6e-9f0a-1b2c3d4e5f60 not found",
			wantID:  "3f2c1a9e-8b7d-4c6e-9f0a-1b2c3d4e5f60",
		},
		{
			name:    "numeric id",
			message: "record 123456 does not exist",
			wantID:  "123456",
		},
		{
			name:    "quantity is not taken as id",
			message: "still has 12345 units",
			wantQty: "12345",
		},
		{
			name:    "short numbers are ignored",
			message: "row 1234 failed",
		},
		{
			name:     "quoted uuid is not a name",
			message:  `material "3f2c1a9e-8b7d-4c6e-9f0a-1b2c3d4e5f60" named 'Sand' not found`,
			wantID:   "3f2c1a9e-8b7d-4c6e-9f0a-1b2c3d4e5f60",
			wantName: "Sand",
		},
		{
			name:    "field name",
			message: `validation failed on field "code"`,
			wantFld: "code",
		},
		{
			name:    "required field",
			message: `'name' is required`,
			wantFld: "name",
		},
		{
			name:     "apostrophes are not quotes",
			message:  `can't delete 'Gravel'`,
			wantName: "Gravel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ExtractContext(tt.message)
			assert.Equal(t, tt.wantID, ctx.EntityID)
			if tt.wantFld == "" {
				assert.Equal(t, tt.wantName, ctx.EntityName)
			}
			assert.Equal(t, tt.wantFld, ctx.Field)
			if tt.wantQty == "" {
				assert.Nil(t, ctx.Quantity)
			} else {
				require.NotNil(t, ctx.Quantity)
				assert.Equal(t, tt.wantQty, ctx.Quantity.String())
			}
		})
	}
}

func TestContextMerge_CallerWins(t *testing.T) {
	q := decimal.NewFromInt(4)
	caller := Context{EntityID: "caller-id", Quantity: &q}
	mined := ExtractContext(`material "Cement" 99999 has 25 units`)

	merged := caller.Merge(mined)
	assert.Equal(t, "caller-id", merged.EntityID)
	assert.Equal(t, "Cement", merged.EntityName)
	assert.Equal(t, "4", merged.QuantityOrZero().String())
}

func TestQuantityOrZero(t *testing.T) {
	assert.True(t, Context{}.QuantityOrZero().IsZero())
}
