package session

import "errors"

// Kind is the cause of an authentication failure
type Kind int

// enum of failure kinds
const (
	KindUnknown Kind = iota
	KindInvalidCredential
	KindMalformedEmail
	KindRateLimited
	KindEmailInUse
	KindWeakPassword
	KindRegistry
)

var messages = map[Kind]string{
	KindUnknown:           "Access Denied: Strategic Registry Error.",
	KindInvalidCredential: "Identity Verification Failed. If you are a new candidate, please click 'Enlist Now' below to register your profile.",
	KindMalformedEmail:    "Credential Format Error: The email address provided is malformed.",
	KindRateLimited:       "Security Protocol: Too many failed attempts. Access temporarily locked for your protection.",
	KindEmailInUse:        "This identity is already active in our database. Please proceed to the Login portal.",
	KindWeakPassword:      "Access Key security violation: Password must be at least 6 characters.",
	KindRegistry:          "Registration Failure: Internal Registry Error.",
}

// Message returns the user-facing text for the failure kind
func Message(kind Kind) string {
	if m, ok := messages[kind]; ok {
		return m
	}
	return messages[KindUnknown]
}

// AuthError is returned by Login and Register. Error() is safe to show to the user,
// the underlying cause is available with errors.Unwrap.
type AuthError struct {
	Kind Kind
	Err  error
}

func (e *AuthError) Error() string { return Message(e.Kind) }

func (e *AuthError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, KindUnknown for errors not produced by this package
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
