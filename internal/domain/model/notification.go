package model

// Severity of a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a user-facing outcome message.
type Notification struct {
	CustomerID int64
	Severity   Severity
	Message    string
}
