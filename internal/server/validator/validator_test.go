package validator

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Question string `form:"question" binding:"required,notblank"`
}

func TestParseValidationError(t *testing.T) {
	InitValidator()

	err := binding.Validator.ValidateStruct(&form{})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"question": "question is a required field"}, ParseValidationError(err))

	err = binding.Validator.ValidateStruct(&form{Question: "   "})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"question": "question must not be blank"}, ParseValidationError(err))

	assert.NoError(t, binding.Validator.ValidateStruct(&form{Question: "why?"}))
}

func TestParseValidationError_NonValidation(t *testing.T) {
	out := ParseValidationError(errors.New("unexpected EOF"))
	assert.Contains(t, out, "body")
}

func TestIsTooLarge(t *testing.T) {
	assert.True(t, IsTooLarge(&http.MaxBytesError{Limit: 1}))
	assert.False(t, IsTooLarge(errors.New("nope")))
}
