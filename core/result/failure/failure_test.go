package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testError struct {
	NamedWithStackTrace
}

func (testError) Error() string {
	return "boom"
}

func newTestError() error {
	return testError{NamedWithCurrentStackTrace("TestError")}
}

func TestNamedWithCurrentStackTrace(t *testing.T) {
	err := newTestError()

	var named testError
	require.True(t, errors.As(err, &named))
	require.Equal(t, "TestError", named.Name())
	require.NotEmpty(t, named.Stack())
}

func TestFromError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		f := FromError(errors.New("nope"))
		require.Equal(t, "Error", f.Name())
		require.Equal(t, "nope", f.Error())
	})

	t.Run("named", func(t *testing.T) {
		f := FromError(newTestError())
		require.Equal(t, "TestError", f.Name())
		require.Equal(t, "boom", f.Error())
	})
}
