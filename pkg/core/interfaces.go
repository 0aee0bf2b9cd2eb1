package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// WarningLogger is a Logger that reports warnings on a separate channel
type WarningLogger interface {
	Logger
	Warnf(format string, args ...interface{})
}
