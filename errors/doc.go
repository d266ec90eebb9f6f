/*
Package errors implements the error model of gatekeeper.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. x/multisig is a good package
to take a look at for an extension declaring its own root errors.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or Wrap an existing root
error. Code stands for the numeric error code, which allows to distinguish
types of errors on the client side and act accordingly.

Please ensure you create the error using ErrXyz.New("...") or
errors.Wrap(err, "...") at the point of creation to ensure a stacktrace is
attached. If you wrap multiple times, only the first wrap records the stack.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
