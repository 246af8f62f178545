package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamKeepsRawMessage(t *testing.T) {
	raw := fmt.Errorf("list periods: %w", errors.New("relation \"institution_periods\" does not exist"))

	err := Upstream(raw)

	assert.Equal(t, "upstream_error", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, raw.Error(), err.Message)
	assert.ErrorIs(t, err, raw)
}

func TestUpstreamPassesTypedErrorsThrough(t *testing.T) {
	err := Upstream(ErrForbidden)

	assert.Same(t, ErrForbidden, err)
}

func TestCloneMatchesOriginalCode(t *testing.T) {
	clone := Clone(ErrValidation, "status must be one of missing late ok")

	assert.True(t, errors.Is(clone, ErrValidation))
	assert.Equal(t, "status must be one of missing late ok", clone.Message)
	assert.NotEqual(t, ErrValidation.Message, clone.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Nil(t, FromError(nil))
}
