package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Type
		wantErr bool
	}{
		{"integer", "INTEGER", Integer, false},
		{"int alias", "int", Integer, false},
		{"real", "REAL", Real, false},
		{"text", "text", Text, false},
		{"blob", "BLOB", Blob, false},
		{"unknown", "VARIANT", Null, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExactlyEqualRealNaN(t *testing.T) {
	nan := NewReal(math.NaN())
	assert.False(t, ExactlyEqual(nan, nan))
	assert.True(t, ExactlyEqual(NewReal(1.5), NewReal(1.5)))
}

func TestCompareOrdering(t *testing.T) {
	assert.Equal(t, -1, Compare(NewNull(), NewInteger(0)))
	assert.Equal(t, -1, Compare(NewInteger(1), NewText("a")))
	assert.Equal(t, -1, Compare(NewText("a"), NewBlob([]byte("a"))))
	assert.Equal(t, -1, Compare(NewInteger(1), NewReal(1.5)))
	assert.Equal(t, 0, Compare(NewInteger(2), NewReal(2.0)))
}

func TestArithNullPropagation(t *testing.T) {
	assert.True(t, Arith(OpAdd, NewNull(), NewInteger(1)).IsNull())
	assert.True(t, Arith(OpDiv, NewInteger(1), NewInteger(0)).IsNull())
}

func TestArithIntegerStaysInteger(t *testing.T) {
	got := Arith(OpDiv, NewInteger(7), NewInteger(2))
	require.Equal(t, Integer, got.Type())
	assert.EqualValues(t, 3, got.Integer())
}

func TestArithRealPromotion(t *testing.T) {
	got := Arith(OpAdd, NewInteger(1), NewReal(0.5))
	require.Equal(t, Real, got.Type())
	assert.InDelta(t, 1.5, got.Real(), 1e-9)
}

func TestArithNonNumericText(t *testing.T) {
	got := Arith(OpAdd, NewText("hello"), NewInteger(1))
	require.Equal(t, Integer, got.Type())
	assert.EqualValues(t, 1, got.Integer())
}

func TestThreeValuedLogic(t *testing.T) {
	assert.Equal(t, False, And(Unknown, False))
	assert.Equal(t, Unknown, And(Unknown, True))
	assert.Equal(t, True, Or(Unknown, True))
	assert.Equal(t, Unknown, Or(Unknown, False))
	assert.Equal(t, Unknown, Not(Unknown))
}

func TestEqualNullNeverMatches(t *testing.T) {
	assert.False(t, Equal(NewNull(), NewNull()))
	assert.False(t, Equal(NewInteger(1), NewNull()))
}
