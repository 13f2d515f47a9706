package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := FileNotFound("/tmp/missing.csv")

	assert.True(t, stderrors.Is(err, ErrFileNotFound))
	assert.False(t, stderrors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, CodeFileNotFound, GetCode(err))
}

func TestWrapKeepsCode(t *testing.T) {
	inner := MalformedField("birth", "123456", "marker missing")
	wrapped := Wrap(inner, "reading enrollment")

	assert.Equal(t, CodeMalformedField, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, ErrMalformedField))
	assert.Contains(t, wrapped.Error(), "reading enrollment")
	assert.Contains(t, wrapped.Error(), "123456")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("disk full"), "saving %s", "out.xlsx")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "saving out.xlsx: disk full", wrapped.Error())
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeWriteError, fmt.Errorf("permission denied"))

	assert.True(t, stderrors.Is(err, ErrWriteError))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestUnwrapThroughFmt(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", RenderError("template unreadable", fmt.Errorf("eof")))

	assert.True(t, stderrors.Is(err, ErrRenderError))
	assert.False(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(err))
}
