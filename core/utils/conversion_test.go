package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt(int64(42)))
	assert.Equal(t, 42, ToInt(uint8(42)))
	assert.Equal(t, 7, ToInt(7.9))
	assert.Equal(t, 12, ToInt(" 12 "))
	assert.Equal(t, 12, ToInt([]byte("12")))
	assert.Equal(t, 1, ToInt(true))
	assert.Equal(t, 0, ToInt("abc"))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "091", ToString([]byte("091")))
	assert.Equal(t, "091", ToString("091"))
	assert.Equal(t, "5", ToString(int64(5)))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	for _, v := range []any{true, 1, int64(1), int8(2), "1", "true", "T", " yes ", []byte("1"), []byte("y")} {
		assert.True(t, ToBool(v), "value %v", v)
	}
	for _, v := range []any{false, 0, int64(0), "0", "false", "", []byte("0"), nil, struct{}{}} {
		assert.False(t, ToBool(v), "value %v", v)
	}
}
