package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
)

func TestParse(t *testing.T) {
	v, err := Parse(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, ID(42), v)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := Parse(bad)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), bad)
	}
}
