package carbonmetrics

// EventBuilder allows to build log events with custom tags.
type EventBuilder interface {
	String(key, value string) EventBuilder
	Error(err error) EventBuilder
	Int(key string, value int) EventBuilder
	Int64(key string, value int64) EventBuilder
	Interface(key string, value any) EventBuilder

	// Msg must be called after all tags were set
	Msg(message string)
}

// Logger is the logging contract consumed by the library. The default
// implementation lives in the logging package and is based on zerolog.
type Logger interface {
	Debug() EventBuilder
	Info() EventBuilder
	Warning() EventBuilder
	Error() EventBuilder

	String(key, value string) Logger
	Int(key string, value int) Logger
}
