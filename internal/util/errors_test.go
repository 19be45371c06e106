package util_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-docgate/internal/util"
)

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("list pages: %w", util.ValidationError("spaceId is required"))

	assert.Equal(t, util.KindValidation, util.KindOf(err))
	assert.True(t, util.Is(err, util.KindValidation))
	assert.False(t, util.Is(err, util.KindPolicy))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, util.KindInternal, util.KindOf(errors.New("boom")))
	assert.False(t, util.Is(nil, util.KindInternal))
}

func TestBackendErrorMessage(t *testing.T) {
	err := util.BackendError(404, `{"message":"not found"}`)

	assert.Equal(t, `backend_error: backend request failed (status 404): {"message":"not found"}`, err.Error())
	assert.Equal(t, 404, err.Status)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := util.Wrap(util.KindBackend, cause, "request %s", "/spaces")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "backend_error: request /spaces: dial tcp: refused", err.Error())
}
