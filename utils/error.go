package utils

import "errors"

// ErrorRecordNotFound is the shared not-found sentinel returned by the
// generic fetch and validate helpers.
var ErrorRecordNotFound = errors.New("record not found")

// ErrorPanic aborts on errors that can only mean a broken deployment.
func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
