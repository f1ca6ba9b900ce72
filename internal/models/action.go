package models

// RequestAction is the closed set of responses a recipient may give to a
// message or contribution request. Anything else is rejected at the API
// boundary before reaching business logic.
type RequestAction string

const (
	RequestActionAccept RequestAction = "accept"
	RequestActionReject RequestAction = "reject"
)

// Valid reports whether the action is a member of the closed set
func (a RequestAction) Valid() bool {
	return a == RequestActionAccept || a == RequestActionReject
}
