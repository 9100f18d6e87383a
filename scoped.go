package forge

import (
	"errors"
	"io"
	"reflect"
)

// MakeScoped builds a value of type T and tracks every freshly
// constructed value that implements io.Closer. The returned release
// function closes them in reverse construction order and joins any close
// errors. When the build itself fails, values acquired up to that point
// are released before the error is returned and the release function is
// nil.
//
// Values registered on the registry are never tracked: the caller owns
// them. Only values produced by constructors during this call are.
func MakeScoped[T any](r Registry, opts ...MakeOption) (T, func() error, error) {
	var zero T

	s := acquireSession(r, opts)
	s.trackClose = true
	defer releaseSession(s)

	val, err := s.make(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		rerr := closeAll(s.acquired)
		if rerr != nil {
			err = errors.Join(err, rerr)
		}
		return zero, nil, err
	}

	out, ok := val.Interface().(T)
	if !ok {
		rerr := closeAll(s.acquired)
		cerr := &CastError{Want: reflect.TypeOf((*T)(nil)).Elem(), Got: val.rt}
		if rerr != nil {
			return zero, nil, errors.Join(error(cerr), rerr)
		}
		return zero, nil, cerr
	}

	acquired := s.acquired
	s.acquired = nil
	return out, func() error { return closeAll(acquired) }, nil
}

func closeAll(acquired []io.Closer) error {
	var errs []error
	for i := len(acquired) - 1; i >= 0; i-- {
		if err := acquired[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
