package auth // auth sentinels shared by the guard, verifier and httpx

import "errors" // errors provides the sentinel constructors

// The four authorization failures.  They stay distinct from request to
// response; httpx maps each one to a fixed status code.
var (
	// ErrNoCredential means a protected operation was called without any
	// credential.
	ErrNoCredential = errors.New("no credential provided")
	// ErrInvalidCredential means a credential was presented but is malformed,
	// expired, forged or carries unknown claims.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrForbidden means a verified identity lacks the required role or
	// ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")
)
