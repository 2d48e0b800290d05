package errors

import (
	"errors"
	"fmt"
	"runtime"

	errorsGo "github.com/go-errors/errors"

	"github.com/srlehn/termvt/internal/consts"
)

func As(err error, target any) bool { return errorsGo.As(err, target) }

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func Join(errs ...error) error {
	// not implemented by github.com/go-errors/errors
	if err := errors.Join(errs...); err != nil {
		return errorsGo.Wrap(err, 1)
	}
	return nil
}

// New wraps obj into a stack carrying error.
// Unlike github.com/go-errors/errors.New() it returns an untyped nil for nil,
// so that `return errors.New(f.Close())` doesn't yield a non-nil error.
func New(obj any) error {
	if obj == nil {
		return nil
	}
	if err, ok := obj.(error); ok && err == nil {
		return nil
	}
	// don't overwrite origin of failure
	if errGo, okErrGo := obj.(*errorsGo.Error); okErrGo {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

func Unwrap(err error) error { return errorsGo.Unwrap(err) }

type Error = errorsGo.Error

func Errorf(format string, a ...any) error { return errorsGo.Errorf(format, a...) }

func Wrap(e any, skip int) error {
	if e == nil {
		return nil
	}
	return errorsGo.Wrap(e, skip+1)
}

func WrapPrefix(e any, prefix string, skip int) error {
	if e == nil {
		return nil
	}
	return errorsGo.WrapPrefix(e, prefix, skip+1)
}

// NilReceiver returns an error with the function name if any of the arguments are nil
func NilReceiver(args ...any) error {
	return errMsgNilTester(consts.ErrNilReceiver, 3, args...)
}

// NilParam returns an error with the function name if any of the arguments are nil
func NilParam(args ...any) error {
	return errMsgNilTester(consts.ErrNilParam, 3, args...)
}

func errMsgNilTester(sentinel error, skip int, args ...any) error {
	if len(args) == 0 {
		return errMsg(sentinel, skip)
	}
	for i := range args {
		if args[i] == nil {
			return errMsg(sentinel, skip)
		}
	}
	return nil
}

// errMsg names the function skip frames up the stack in the error message.
func errMsg(sentinel error, skip int) error {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return errorsGo.Wrap(sentinel, skip)
	}
	return errorsGo.Wrap(fmt.Errorf(`%w: %s()`, sentinel, runtime.FuncForPC(pc).Name()), skip)
}
