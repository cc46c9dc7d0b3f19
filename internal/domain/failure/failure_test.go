package failure

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockAvailable(t *testing.T) {
	cause := errors.New("cannot delete")
	e := NewStockAvailable("mat-1", "Cement", decimal.NewFromInt(25), cause)

	assert.Equal(t, TypeStockAvailable, e.Kind())
	assert.Equal(t, SeverityWarning, e.Severity)
	assert.Equal(t, LayerService, e.Layer)
	assert.True(t, e.StockActual.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "mat-1", e.EntityID)
	assert.Equal(t, "Cement", e.EntityName)
	assert.Contains(t, e.UserMessage, "25")
	assert.NotEmpty(t, e.SuggestedAction)
	assert.NotEmpty(t, e.CorrelationID)
	assert.False(t, e.Timestamp.IsZero())
	assert.ErrorIs(t, e, cause)
}

func TestConstructorsDefaults(t *testing.T) {
	tests := []struct {
		name     string
		err      Error
		wantType Type
		wantSev  Severity
	}{
		{"not found", NewEntityNotFound("x", nil), TypeEntityNotFound, SeverityError},
		{"connection", NewConnectionFailure("dial tcp", nil), TypeConnectionFailure, SeverityError},
		{"validation", NewValidationFailure("code", "", nil), TypeValidationFailure, SeverityWarning},
		{"generic", NewGeneric("boom", nil), TypeGeneric, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.err.Info()
			assert.Equal(t, tt.wantType, info.Type)
			assert.Equal(t, tt.wantSev, info.Severity)
			assert.Equal(t, LayerService, info.Layer)
			assert.NotEmpty(t, info.Message)
			assert.NotEmpty(t, info.UserMessage)
			assert.NotEmpty(t, info.CorrelationID)
		})
	}
}

func TestWithLayer_KeepsTypeAndCorrelationID(t *testing.T) {
	original := NewEntityNotFound("abc", nil)
	hooked := original.WithLayer(LayerHook)

	assert.Equal(t, LayerHook, hooked.Info().Layer)
	assert.Equal(t, original.CorrelationID, hooked.Info().CorrelationID)
	assert.Equal(t, original.Kind(), hooked.Kind())
	assert.Equal(t, LayerService, original.Layer, "original must not be mutated")
}

func TestAs_ThroughWrapping(t *testing.T) {
	typed := NewValidationFailure("name", "", nil)
	wrapped := fmt.Errorf("saving: %w", typed)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, typed.CorrelationID, got.Info().CorrelationID)
	assert.True(t, IsType(wrapped, TypeValidationFailure))
	assert.False(t, IsType(wrapped, TypeGeneric))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestRestamp(t *testing.T) {
	t.Run("typed error keeps identity", func(t *testing.T) {
		e := NewConnectionFailure("refused", nil)
		got := Restamp(e, LayerComponent)
		assert.Equal(t, TypeConnectionFailure, got.Kind())
		assert.Equal(t, e.CorrelationID, got.Info().CorrelationID)
		assert.Equal(t, LayerComponent, got.Info().Layer)
	})

	t.Run("untyped error becomes generic", func(t *testing.T) {
		got := Restamp(errors.New("weird"), LayerHook)
		require.NotNil(t, got)
		assert.Equal(t, TypeGeneric, got.Kind())
		assert.Equal(t, LayerHook, got.Info().Layer)
		g, ok := got.(*GenericError)
		require.True(t, ok)
		assert.Equal(t, "weird", g.OriginalMessage)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Restamp(nil, LayerHook))
	})
}

func TestErrorJSON(t *testing.T) {
	e := NewStockAvailable("id-1", "Sand", decimal.NewFromInt(3), nil)
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "STOCK_AVAILABLE", out["type"])
	assert.Equal(t, "service", out["layer"])
	assert.Equal(t, "Sand", out["entityName"])
	assert.Equal(t, "3", out["stockActual"])
	assert.NotEmpty(t, out["correlationId"])
}
