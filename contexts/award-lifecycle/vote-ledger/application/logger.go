package application

import "log/slog"

// ResolveLogger falls back to the process default so use cases never nil-check
// their logger at every call site.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
