// Package scoped provides helpers for the acquire/use/release pattern
// with a release that is guaranteed to run on every exit path, whether
// the use function returns normally, fails, or panics.
package scoped

import "io"

// Use acquires a resource, passes it to use, and always releases it
// before returning. If both use and release fail, the use error takes
// precedence; a release error is only returned when use succeeded.
func Use[R, T any](acquire func() (R, error), release func(R) error, use func(R) (T, error)) (value T, err error) {
	resource, err := acquire()
	if err != nil {
		return value, err
	}

	defer func() {
		releaseErr := release(resource)
		if err == nil {
			err = releaseErr
		}
	}()

	return use(resource)
}

// UseCloser is a convenience wrapper around Use for resources that
// implement io.Closer.
func UseCloser[R io.Closer, T any](acquire func() (R, error), use func(R) (T, error)) (T, error) {
	return Use(acquire, func(r R) error { return r.Close() }, use)
}
