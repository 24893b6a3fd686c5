package domain

// EventSink is the outbound event channel of one relay session. Begin commits
// the response status and stream headers and must be called exactly once,
// before any event. Exactly one terminal event (End or Error) is emitted per
// session, and Close is safe to call more than once.
type EventSink interface {
	Begin(statusCode int) error
	Message(content string) error
	Error(detail string) error
	End(msg *Message) error
	Close() error
}
