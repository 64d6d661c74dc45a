package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoJSONFound indicates the health tool output contained no JSON document
	ErrNoJSONFound = errors.New("no JSON found")

	// ErrInvalidStructure indicates the JSON document lacked the expected node list
	ErrInvalidStructure = errors.New("invalid data structure")

	// ErrSubprocess indicates the external health tool failed to run or exited abnormally
	ErrSubprocess = errors.New("health tool failed")

	// ErrFetchFailed indicates a full fetch cycle could not produce a dataset
	ErrFetchFailed = errors.New("fetch cycle failed")
)

// Wrap wraps an error with a message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if an error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join joins multiple errors into one
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// New creates a new error with the given message
func New(message string) error {
	return errors.New(message)
}

// IsParseError checks if an error came from parsing the health tool output
func IsParseError(err error) bool {
	return errors.Is(err, ErrNoJSONFound) || errors.Is(err, ErrInvalidStructure)
}

// IsSubprocessError checks if an error came from running the health tool
func IsSubprocessError(err error) bool {
	return errors.Is(err, ErrSubprocess)
}
