package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil errors were provided, nil is returned. A single
// non nil error is returned unchanged.
func Append(errs ...error) error {
	var nonEmpty []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that nested collections can be inspected by a
		// single Unpack call.
		if m, ok := e.(*multiErr); ok {
			nonEmpty = append(nonEmpty, m.errs...)
			continue
		}
		nonEmpty = append(nonEmpty, e)
	}

	switch len(nonEmpty) {
	case 0:
		return nil
	case 1:
		return nonEmpty[0]
	default:
		return &multiErr{errs: nonEmpty}
	}
}

// multiErr represents a collection of errors reported together, for example
// all validation problems of a single message.
type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Unpack returns all errors collected by this instance.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// Code returns the code of the first error, consistent with fail-fast
// approach of reporting a single code to the client.
func (m *multiErr) Code() uint32 {
	return code(m.errs[0])
}

// unpacker is implemented by errors that hold several other errors.
type unpacker interface {
	Unpack() []error
}
