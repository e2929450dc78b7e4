// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined in
// struct tags, and small helpers for the presence checks whose
// client message is fixed, and extracts validation errors into
// a format the client can understand.
package validation
