package namespace_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/0glabs/0g-namespace/namespace"
	"gotest.tools/assert"
)

func extractError(err error) *namespace.Error {
	var nsErr *namespace.Error
	if errors.As(err, &nsErr) {
		return nsErr
	}
	return nil
}

func TestErrorAs(t *testing.T) {
	err := fmt.Errorf("123")
	assert.Equal(t, extractError(err) == nil, true)
	assert.Equal(t, namespace.KindOf(err), namespace.Kind(""))

	err = &namespace.Error{
		Kind: namespace.KindNotFound,
		Op:   "delete",
		Path: "/docs/a.txt",
	}
	assert.DeepEqual(t, extractError(errors.WithMessage(err, "failed to delete")), err)
	assert.Equal(t, namespace.KindOf(errors.WithMessage(err, "failed to delete")), namespace.KindNotFound)
}

func TestErrorIs(t *testing.T) {
	err := errors.WithMessage(&namespace.Error{
		Kind: namespace.KindDuplicateName,
		Op:   "create",
		Path: "/docs",
	}, "mkdir")

	assert.Assert(t, errors.Is(err, namespace.ErrDuplicateName))
	assert.Assert(t, !errors.Is(err, namespace.ErrNotFound))
	assert.Assert(t, errors.Is(err, &namespace.Error{Kind: namespace.KindDuplicateName, Op: "create"}))
	assert.Assert(t, !errors.Is(err, &namespace.Error{Kind: namespace.KindDuplicateName, Op: "rename"}))
}

func TestErrorMessage(t *testing.T) {
	err := &namespace.Error{Kind: namespace.KindIOFailure, Op: "create", Path: "/a", Err: fmt.Errorf("disk full")}
	assert.Equal(t, err.Error(), "IOFailure: create /a: disk full")
	assert.Equal(t, errors.Unwrap(err).Error(), "disk full")

	assert.Equal(t, namespace.ErrNotAFolder.Error(), "NotAFolder")
}
