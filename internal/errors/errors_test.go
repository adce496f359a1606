package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	loaderr "github.com/appshell/modloader/internal/errors"
)

func TestLoadError_Error(t *testing.T) {
	cause := stderrors.New("boom")

	err := loaderr.New("admin@1.0.0", loaderr.StageInstall, cause)
	assert.Equal(t, "module admin@1.0.0: install: boom", err.Error())

	withHint := loaderr.New("admin", loaderr.StageCode, cause).
		WithHint("check the entry address")
	assert.Contains(t, withHint.Error(), "hint: check the entry address")
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := loaderr.New("admin", loaderr.StageValidate, cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("pass failed: %w", err)
	assert.ErrorIs(t, wrapped, cause)
}

func TestStageOf(t *testing.T) {
	cause := stderrors.New("boom")

	err := loaderr.New("admin", loaderr.StageRoutes, cause)
	assert.Equal(t, loaderr.StageRoutes, loaderr.StageOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, loaderr.StageRoutes, loaderr.StageOf(wrapped))

	assert.Empty(t, loaderr.StageOf(cause))
}
