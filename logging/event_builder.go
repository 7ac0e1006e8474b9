package logging

import (
	"github.com/rs/zerolog"

	"github.com/moira-alert/carbonmetrics"
)

type EventBuilder struct {
	*zerolog.Event
}

func (e EventBuilder) Msg(msg string) {
	if e.Event != nil {
		e.Event.Msg(msg)
	}
}

func (e EventBuilder) String(key, value string) carbonmetrics.EventBuilder {
	if e.Event != nil {
		e.Event.Str(key, value)
	}
	return e
}

func (e EventBuilder) Error(err error) carbonmetrics.EventBuilder {
	if e.Event != nil {
		e.Event.Str("error", err.Error())
	}
	return e
}

func (e EventBuilder) Int(key string, value int) carbonmetrics.EventBuilder {
	if e.Event != nil {
		e.Event.Int(key, value)
	}
	return e
}

func (e EventBuilder) Int64(key string, value int64) carbonmetrics.EventBuilder {
	if e.Event != nil {
		e.Event.Int64(key, value)
	}
	return e
}

func (e EventBuilder) Interface(key string, value any) carbonmetrics.EventBuilder {
	if e.Event != nil {
		e.Event.Interface(key, value)
	}
	return e
}
