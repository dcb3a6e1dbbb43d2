package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService  = "service"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldError    = "error"
	FieldModel    = "model"
	FieldRows     = "rows"
	FieldDim      = "dim"
	FieldOffset   = "offset"
	FieldLimit    = "limit"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
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

// Model returns a slog attribute for a model name.
func Model(name string) slog.Attr {
	return slog.String(FieldModel, name)
}

// Rows returns a slog attribute for a batch row count.
func Rows(n int) slog.Attr {
	return slog.Int(FieldRows, n)
}

// Dim returns a slog attribute for a vector dimensionality.
func Dim(n int) slog.Attr {
	return slog.Int(FieldDim, n)
}

// Offset returns a slog attribute for a pagination offset.
func Offset(n int) slog.Attr {
	return slog.Int(FieldOffset, n)
}

// Limit returns a slog attribute for a pagination limit.
func Limit(n int) slog.Attr {
	return slog.Int(FieldLimit, n)
}
