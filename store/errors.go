package store

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrNotFound is returned by Update when no record has the given key.
	ErrNotFound = errors.New("aristotle: record not found")

	// ErrMissingKey is returned when a record has no value for the key attribute.
	ErrMissingKey = errors.New("aristotle: record has no primary key value")

	// ErrMissingCredentials is returned when no AWS credentials could be resolved.
	ErrMissingCredentials = errors.New("aristotle: AWS credentials not found")

	// ErrTableNotFound is returned when the table does not exist in the target region.
	ErrTableNotFound = errors.New("aristotle: table does not exist")
)

// Kind classifies a store failure for reporting.
type Kind int

const (
	// KindGeneric covers transport, authorization and validation failures.
	KindGeneric Kind = iota

	// KindMissingCredentials means the credential chain resolved nothing.
	KindMissingCredentials

	// KindTableNotFound means the configured table does not exist.
	KindTableNotFound
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing-credentials"
	case KindTableNotFound:
		return "table-not-found"
	default:
		return "generic"
	}
}

// Error describes a failed round trip to the table.
type Error struct {
	Op    string
	Table string
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("aristotle: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingCredentials:
		return e.Kind == KindMissingCredentials
	case ErrTableNotFound:
		return e.Kind == KindTableNotFound
	}
	return false
}

// KindOf classifies err. A nil error is KindGeneric.
func KindOf(err error) Kind {
	if err == nil {
		return KindGeneric
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return classify(err)
}

// classify inspects the SDK error chain.
func classify(err error) Kind {
	if errors.Is(err, ErrMissingCredentials) {
		return KindMissingCredentials
	}
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return KindTableNotFound
	}
	return KindGeneric
}

// wrapError attaches the operation and table to a service error.
func (s *Store) wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:    op,
		Table: s.config.TableName,
		Kind:  classify(err),
		Err:   err,
	}
}
