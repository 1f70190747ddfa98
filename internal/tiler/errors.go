package tiler

import (
	"fmt"

	"github.com/ecopia-map/mesh_tiler/internal/sampling"
	"github.com/pkg/errors"
)

// Failure kinds surfaced by every stage of a run. Stages wrap these with context, callers
// match them with errors.Is.
var (
	ErrFileRead          = errors.New("failed to read file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedMesh     = errors.New("malformed mesh data")
	ErrNoMeshData        = errors.New("no mesh data found in model")
	ErrInvalidPointCount = sampling.ErrNonPositivePointCount
	ErrInvalidStrategy   = sampling.ErrUnknownStrategy
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrSerialization     = errors.New("serialization error")
	ErrWrite             = errors.New("failed to write output")
	ErrVerification      = errors.New("ept verification failed")
	ErrInvalidArguments  = errors.New("invalid command line arguments")
)

// Error tags an underlying cause with one of the failure kinds above.
type Error struct {
	Kind  error
	Op    string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Fail builds an *Error of the given kind carrying a stack trace. cause may be nil.
func Fail(kind error, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{
		Kind:  kind,
		Op:    fmt.Sprintf(format, args...),
		Cause: cause,
	})
}
