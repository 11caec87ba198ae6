package converting

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointers(t *testing.T) {
	assert.Equal(t, 0, Unwrap[int](nil))
	assert.Equal(t, 3, Unwrap(PointerToValue(3)))

	assert.Nil(t, MapPointer[int, string](nil, strconv.Itoa))
	assert.Equal(t, "7", *MapPointer(PointerToValue(7), strconv.Itoa))
}
