package core

// Logger is any service that can log application events.
// expected args: error, map[string]interface{}, user.User...
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
