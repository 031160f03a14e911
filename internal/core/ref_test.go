package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantZero   bool
		wantID     string
		wantName   string
		wantFilled bool
	}{
		{name: "absent", payload: `{}`, wantZero: true},
		{name: "null", payload: `{"category": null}`, wantZero: true},
		{name: "identifier", payload: `{"category": "c1"}`, wantID: "c1"},
		{name: "populated", payload: `{"category": {"_id": "c1", "name": "Groceries"}}`, wantID: "c1", wantName: "Groceries", wantFilled: true},
		{name: "populated with id", payload: `{"category": {"id": "c2", "name": "Rent"}}`, wantID: "c2", wantName: "Rent", wantFilled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx Transaction
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &tx))

			assert.Equal(t, tt.wantZero, tx.Category.IsZero())
			assert.Equal(t, tt.wantID, tx.Category.ID())
			name, ok := tx.Category.Populated()
			assert.Equal(t, tt.wantFilled, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestRef_UnmarshalUnknownShapesResolveToSentinel(t *testing.T) {
	for _, raw := range []string{
		`{"category": 12}`,
		`{"category": true}`,
		`{"category": ["c1"]}`,
		`{"category": {"_id": 7, "name": "Food"}}`,
	} {
		t.Run(raw, func(t *testing.T) {
			var tx Transaction
			require.NoError(t, json.Unmarshal([]byte(raw), &tx))
			assert.True(t, tx.Category.IsZero())
			assert.Equal(t, Uncategorized, ResolveName(tx.Category, NewLookup([]Category{{ID: "c1", Name: "Food"}}), Uncategorized))
		})
	}
}

func TestRef_MarshalWritesIdentifier(t *testing.T) {
	out, err := json.Marshal(struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
		C Ref `json:"c"`
	}{A: RefID("x"), B: RefNamed("y", "Savings")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":"y","c":null}`, string(out))
}
