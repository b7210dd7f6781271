package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_Scan(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, false},
		{"bool true", true, true},
		{"bool false", false, false},
		{"int64 one", int64(1), true},
		{"int64 zero", int64(0), false},
		{"float64 one", float64(1), true},
		{"bytes 1", []byte("1"), true},
		{"bytes 0", []byte("0"), false},
		{"bytes true", []byte("true"), true},
		{"string t", "t", true},
		{"string f", "f", false},
		{"string true", "true", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f Flag
			require.NoError(t, f.Scan(tc.value))
			assert.Equal(t, tc.want, f.Bool())
		})
	}
}

func TestFlag_ScanRejectsUnknownType(t *testing.T) {
	var f Flag
	assert.Error(t, f.Scan(struct{}{}))
}

func TestFlag_Value(t *testing.T) {
	v, err := Flag(true).Value()
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Flag(false).Value()
	require.NoError(t, err)
	assert.Equal(t, false, v)
}
