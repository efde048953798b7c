package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "calisthenics-ai context key " + string(c)
}

// UserIDKey is the key for the session subject id in context.Context
const UserIDKey = contextKey("userID")

// UserEmailKey is the key for the session email in context.Context
const UserEmailKey = contextKey("userEmail")

// RequestIDKey is the key for the request id set by the request id middleware
const RequestIDKey = contextKey("requestID")

// VerifiedKey marks whether the session token signature was checked
const VerifiedKey = contextKey("verified")

// ComponentKey and OperationKey are used by the logger
const (
	ComponentKey = contextKey("component")
	OperationKey = contextKey("operation")
)
