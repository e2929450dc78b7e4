// Package errs defines the error taxonomy of the API.
//
// Every failure a client may see is an *HTTPError carrying a status, a
// machine code and a message. Field-level validation detail travels in
// FieldError. Anything that is not an *HTTPError is treated as an internal
// failure by the error normalizer.
package errs
