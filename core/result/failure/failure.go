package failure

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Named is an error that you can read a name from
type Named interface {
	Name() string
}

// WithStackTrace is an error that you can read a stack trace from
type WithStackTrace interface {
	Stack() string
}

type Failure interface {
	error
	Named
}

type NamedWithStackTrace interface {
	Named
	WithStackTrace
}

type namedWithStackTrace struct {
	name  string
	stack errors.StackTrace
}

func (n namedWithStackTrace) Name() string {
	return n.name
}

func (n namedWithStackTrace) Stack() string {
	return fmt.Sprintf("%+v", n.stack)
}

// NamedWithCurrentStackTrace captures the stack of the caller of the function
// that invoked it, so error constructors do not appear in the trace.
func NamedWithCurrentStackTrace(name string) NamedWithStackTrace {
	const depth = 32

	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	f := make(errors.StackTrace, n)
	for i := 0; i < n; i++ {
		f[i] = errors.Frame(pcs[i])
	}

	return namedWithStackTrace{name, f}
}

type failure struct {
	name    string
	message string
}

func (f failure) Name() string {
	return f.name
}

func (f failure) Error() string {
	return f.message
}

// FromError converts an error into a [Failure]. If the error is already
// [Named] the name is preserved, otherwise it is named "Error".
func FromError(err error) Failure {
	if f, ok := err.(Failure); ok {
		return f
	}
	name := "Error"
	if named, ok := err.(Named); ok {
		name = named.Name()
	}
	return failure{name: name, message: err.Error()}
}
