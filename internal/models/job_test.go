package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalaryUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Salary
		wantErr bool
	}{
		{name: "amount", input: `2500`, want: DisclosedSalary(2500)},
		{name: "fractional amount", input: `1999.5`, want: DisclosedSalary(1999.5)},
		{name: "sentinel", input: `"Not disclosed"`, want: UndisclosedSalary()},
		{name: "zero", input: `0`, wantErr: true},
		{name: "negative", input: `-10`, wantErr: true},
		{name: "other string", input: `"negotiable"`, wantErr: true},
		{name: "numeric string", input: `"2500"`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Salary
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestSalaryMarshal(t *testing.T) {
	b, err := json.Marshal(DisclosedSalary(1200))
	require.NoError(t, err)
	assert.JSONEq(t, `1200`, string(b))

	b, err = json.Marshal(UndisclosedSalary())
	require.NoError(t, err)
	assert.JSONEq(t, `"Not disclosed"`, string(b))
}

func TestJobJSONCarriesSalaryUnion(t *testing.T) {
	var body struct {
		Salary Salary `json:"salary"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"salary":"Not disclosed"}`), &body))
	assert.False(t, body.Salary.Disclosed)
	assert.True(t, body.Salary.Valid())
}

func TestEnumerations(t *testing.T) {
	assert.True(t, IsValidCategory("imam"))
	assert.False(t, IsValidCategory("driver"))
	assert.True(t, IsValidJobType("remote"))
	assert.False(t, IsValidJobType("freelance"))
	assert.True(t, IsValidJobStatus("draft"))
	assert.True(t, IsValidApplicationStatus("under review"))
	assert.False(t, IsValidApplicationStatus("under_review"))
	assert.True(t, IsValidRole("employer"))
	assert.False(t, IsValidRole("root"))
}
