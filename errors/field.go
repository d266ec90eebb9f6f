package errors

import "fmt"

// Field labels err with the name of the model attribute it was reported
// for. It returns nil for a nil error. Nested attributes are joined with a
// dot and list elements use their index, for example Owners.2
func Field(name string, err error) error {
	if isNilErr(err) {
		return nil
	}
	return &fieldError{field: name, parent: err}
}

// AppendField adds err, labeled with name, to errs. Nil errors are ignored.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err))
}

type fieldError struct {
	field  string
	parent error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.field, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

// FieldErrors returns all errors of err labeled with name, looking into
// collections created by Append.
func FieldErrors(err error, name string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && f.field == name {
			return append(res, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				res = append(res, FieldErrors(e, name)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return res
}
