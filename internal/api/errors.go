package api

import (
	"errors"
	"fmt"
)

var ErrFileNotServed = errors.New("file_not_served")

type fileNotServedError struct {
	name string
}

func (e fileNotServedError) Error() string {
	return fmt.Sprintf("file %q is not served", e.name)
}

func (e fileNotServedError) Unwrap() error {
	return ErrFileNotServed
}

func newFileNotServed(name string) error {
	return fileNotServedError{name: name}
}
