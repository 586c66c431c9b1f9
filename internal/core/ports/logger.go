package ports

// Logger defines the interface for structured logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a message at debug level with key value pairs.
	Debug(msg string, args ...any)

	// Info logs a message at info level with key value pairs.
	Info(msg string, args ...any)

	// Warn logs a message at warn level with key value pairs.
	Warn(msg string, args ...any)

	// Error logs a message at error level with key value pairs.
	Error(msg string, args ...any)
}
