package core

// Logger is implemented by every logging backend used by the app.
// args may hold errors, maps of extra data and at most one Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the admin on whose behalf something was logged.
type Person struct {
	ID       string
	Username string
	Email    string
}
