// Package daemon implements the command/response state machine that owns
// one Recording at a time and dispatches completed audio to the
// transcription worker.
package daemon

import (
	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/fsm"
)

// Command is one request accepted by the daemon loop.
type Command struct {
	Kind    fsm.CommandKind
	Session audio.Session
	Mode    fsm.Mode
	Respond Response // set only for CommandRespond: passed through verbatim
}

// ResponseKind tags the shape of a Response.
type ResponseKind int

const (
	ResponseAck ResponseKind = iota
	ResponseNil
	ResponseError
	ResponseExit
	ResponseNewMode
	ResponseTranscription
)

// Response is one reply emitted by the daemon loop.
type Response struct {
	Kind    ResponseKind
	AckMs   int64
	Message string
	Code    int
	Mode    fsm.Mode
	Content *string // nil when transcription produced no text
}
