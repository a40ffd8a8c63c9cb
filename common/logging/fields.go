package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService   = "service"
	FieldOrgID     = "org_id"
	FieldUserID    = "user_id"
	FieldEventID   = "event_id"
	FieldEventType = "event_type"
	FieldDocID     = "document_id"
	FieldProvider  = "provider"
	FieldIP        = "ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// OrgID returns a slog attribute for the tenant org ID.
func OrgID(id string) slog.Attr {
	return slog.String(FieldOrgID, id)
}

// UserID returns a slog attribute for the acting user ID.
func UserID(id string) slog.Attr {
	return slog.String(FieldUserID, id)
}

// EventID returns a slog attribute for an activity event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// EventType returns a slog attribute for an activity event type.
func EventType(t string) slog.Attr {
	return slog.String(FieldEventType, t)
}

// DocumentID returns a slog attribute for a document ID.
func DocumentID(id string) slog.Attr {
	return slog.String(FieldDocID, id)
}

// Provider returns a slog attribute for a connector provider name.
func Provider(name string) slog.Attr {
	return slog.String(FieldProvider, name)
}

// IP returns a slog attribute for the client IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
