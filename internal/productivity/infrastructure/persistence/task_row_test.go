package persistence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullFloat_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected *float64
	}{
		{"nil", nil, nil},
		{"float64", 7.5, ptr(7.5)},
		{"int64", int64(3), ptr(3.0)},
		{"int32", int32(4), ptr(4.0)},
		{"numeric text", " 45 ", ptr(45.0)},
		{"numeric bytes", []byte("0.25"), ptr(0.25)},
		{"word", "high", nil},
		{"empty text", "", nil},
		{"nan", math.NaN(), nil},
		{"inf text", "Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n nullFloat
			require.NoError(t, n.Scan(tt.src))
			assert.Equal(t, tt.expected, n.Float)
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		n := nullFloat{Float: ptr(1.0)}
		assert.Error(t, n.Scan(true))
		assert.Nil(t, n.Float)
	})
}

func TestNullFloat_Int(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		expected *int
	}{
		{"unset", nil, nil},
		{"whole", ptr(2.0), ptr(2)},
		{"truncates", ptr(2.9), ptr(2)},
		{"saturates high", ptr(1e300), ptr(math.MaxInt32)},
		{"saturates low", ptr(-1e300), ptr(math.MinInt32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nullFloat{Float: tt.value}.Int())
		})
	}
}

func TestNullTime_Scan(t *testing.T) {
	var n nullTime

	require.NoError(t, n.Scan("2026-03-12T17:00:00Z"))
	require.NotNil(t, n.Time)

	require.NoError(t, n.Scan("not a date"))
	assert.Nil(t, n.Time)

	assert.Error(t, n.Scan(42.0))
}

func ptr[T any](v T) *T { return &v }
