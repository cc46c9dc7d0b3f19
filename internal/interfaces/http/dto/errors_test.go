package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		typ      failure.Type
		expected int
	}{
		{failure.TypeStockAvailable, http.StatusConflict},
		{failure.TypeEntityNotFound, http.StatusNotFound},
		{failure.TypeConnectionFailure, http.StatusServiceUnavailable},
		{failure.TypeValidationFailure, http.StatusUnprocessableEntity},
		{failure.TypeGeneric, http.StatusInternalServerError},
		{failure.Type("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(CodeFor(tt.typ)))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("UNKNOWN_CODE"))
}

func TestNewFailureResponse_StockAvailable(t *testing.T) {
	err := failure.NewStockAvailable("m-1", "Cement", decimal.NewFromInt(25), nil)

	resp := NewFailureResponse(err, "req-1")
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)

	b, marshalErr := json.Marshal(resp)
	require.NoError(t, marshalErr)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	payload := body["error"].(map[string]any)

	assert.Equal(t, "STOCK_AVAILABLE", payload["type"])
	assert.Equal(t, ErrCodeStockAvailable, payload["code"])
	assert.Equal(t, "25", payload["stockActual"])
	assert.Equal(t, "m-1", payload["entityId"])
	assert.Equal(t, "Cement", payload["entityName"])
	assert.Equal(t, "warning", payload["severity"])
	assert.Equal(t, err.CorrelationID, payload["correlationId"])
	assert.Equal(t, "req-1", payload["request_id"])
	assert.NotContains(t, payload, "originalMessage")
}

func TestNewFailureResponse_KindFields(t *testing.T) {
	t.Run("generic keeps original message", func(t *testing.T) {
		resp := NewFailureResponse(failure.NewGeneric("segfault in driver", nil), "")
		assert.Equal(t, "segfault in driver", resp.Error.OriginalMessage)
		assert.Equal(t, ErrCodeInternal, resp.Error.Code)
	})

	t.Run("validation carries field", func(t *testing.T) {
		resp := NewFailureResponse(failure.NewValidationFailure("code", "CEM-01", nil), "")
		assert.Equal(t, "code", resp.Error.Field)
		assert.Equal(t, "CEM-01", resp.Error.Value)
	})

	t.Run("connection carries details", func(t *testing.T) {
		resp := NewFailureResponse(failure.NewConnectionFailure("connection refused", errors.New("connection refused")), "")
		assert.Equal(t, "connection refused", resp.Error.Details)
	})

	t.Run("not found carries id", func(t *testing.T) {
		resp := NewFailureResponse(failure.NewEntityNotFound("m-9", nil), "")
		assert.Equal(t, "m-9", resp.Error.EntityID)
	})
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{{Field: "name", Message: "This field is required"}})

	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, failure.TypeValidationFailure, resp.Error.Type)
	assert.Equal(t, "name", resp.Error.Field)
	assert.Len(t, resp.Error.Validation, 1)
}

func TestListRequest_ToFilter(t *testing.T) {
	req := ListRequest{Page: 2, PageSize: 10, Search: "cem", CategoryID: "c-1", IncludeInactive: true}

	f := req.ToFilter()
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, "cem", f.Search)
	assert.Equal(t, "c-1", f.Value(inventory.FilterCategoryID))
	assert.Empty(t, f.Value(inventory.FilterPresentationID))
	assert.True(t, req.ToOptions().IncludeInactive)
}

func TestCreateMaterialRequest_ToDomain(t *testing.T) {
	stock := decimal.NewFromInt(7)
	m := CreateMaterialRequest{Code: "CEM-01", Name: "Cement", Unit: "kg", Stock: &stock}.ToDomain()

	assert.Empty(t, m.ID)
	assert.True(t, m.Active)
	assert.True(t, m.Stock.Equal(stock))
	assert.True(t, m.MinStock.IsZero())
}
