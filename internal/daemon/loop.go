package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/fsm"
	"github.com/rbright/talkd/internal/procnode"
	"github.com/rbright/talkd/internal/whisper"
)

// Loop owns the state machine, the currently-open Recording (if any), and
// the connection to the transcription worker. It is driven by Run, which
// reads Commands from a capacity-1 channel and writes Responses to another.
type Loop struct {
	logger   *slog.Logger
	strategy whisper.Strategy
	jobs     chan<- whisper.Job
	results  <-chan whisper.Result

	state     fsm.State[audio.Session]
	recording *audio.Recording
	injector  func(Command)
}

// NewLoop builds a Loop bound to a running transcription worker.
func NewLoop(logger *slog.Logger, strategy whisper.Strategy, jobs chan<- whisper.Job, results <-chan whisper.Result) *Loop {
	return &Loop{logger: logger, strategy: strategy, jobs: jobs, results: results}
}

// SetInjector installs the callback used to enqueue a command-injection
// result back onto the daemon's own command stream. Transport wiring passes
// a function that sends (non-blocking, in its own goroutine) on a second
// sender cloned from the channel the transport itself reads commands from.
func (l *Loop) SetInjector(inject func(Command)) {
	l.injector = inject
}

// Run drains commands until ctx is cancelled or a Reset/fatal condition ends
// the loop, writing exactly one Response per Command onto responses (in the
// same order). It returns the process exit code: 0 on clean shutdown, 1 if
// a Reset was requested or an unrecoverable per-job failure occurred.
func (l *Loop) Run(ctx context.Context, commands <-chan Command, responses chan<- Response) int {
	exitCode := 0

	defer close(responses)

	for {
		select {
		case <-ctx.Done():
			responses <- Response{Kind: ResponseExit, Code: exitCode}
			return exitCode

		case cmd, ok := <-commands:
			if !ok {
				responses <- Response{Kind: ResponseExit, Code: exitCode}
				return exitCode
			}

			resp, shouldExit, code := l.apply(cmd)
			if code != 0 {
				exitCode = code
			}
			responses <- resp

			if shouldExit {
				responses <- Response{Kind: ResponseExit, Code: exitCode}
				return exitCode
			}
		}
	}
}

// apply dispatches one Command and returns the Response to send, whether
// the loop should exit after sending it, and an exit-code override (0 means
// no override).
func (l *Loop) apply(cmd Command) (Response, bool, int) {
	switch cmd.Kind {
	case fsm.CommandRespond:
		return cmd.Respond, false, 0

	case fsm.CommandStart:
		return l.applyStart(cmd)

	case fsm.CommandStop:
		return l.applyStop()

	case fsm.CommandMode:
		next, accepted := fsm.Apply(l.state, fsm.Command[audio.Session]{Kind: fsm.CommandMode, Mode: cmd.Mode})
		if !accepted {
			return Response{Kind: ResponseNil}, false, 0
		}
		l.state = next
		return Response{Kind: ResponseNewMode, Mode: l.state.Mode}, false, 0

	case fsm.CommandReset:
		return Response{Kind: ResponseNil}, true, 1

	default:
		return Response{Kind: ResponseNil}, false, 0
	}
}

func (l *Loop) applyStart(cmd Command) (Response, bool, int) {
	if l.state.Running() {
		return Response{Kind: ResponseNil}, false, 0
	}

	sink := procnode.New(reduceAudioMessages)
	rec, err := audio.Controlled(context.Background(), cmd.Session, sink)
	if err != nil {
		l.logger.Error("start recording failed", "error", err)
		return Response{Kind: ResponseError, Message: err.Error()}, false, 0
	}

	rec.Start()
	l.recording = rec
	l.state, _ = fsm.Apply(l.state, fsm.Command[audio.Session]{Kind: fsm.CommandStart, Session: cmd.Session})

	return Response{Kind: ResponseAck, AckMs: time.Now().UnixMilli()}, false, 0
}

func (l *Loop) applyStop() (Response, bool, int) {
	if !l.state.Running() {
		return Response{Kind: ResponseNil}, false, 0
	}

	session := l.state.Session
	mode := l.state.Mode
	rec := l.recording
	l.recording = nil
	l.state, _ = fsm.Apply(l.state, fsm.Command[audio.Session]{Kind: fsm.CommandStop})

	config, samples, err := rec.Stop()
	if err != nil {
		l.logger.Error("recording stop failed", "error", err)
		return l.transcriptionResponse(nil, mode), false, 0
	}

	l.jobs <- whisper.Job{
		Audio:      samples,
		SampleRate: int(config.SampleRate),
		Strategy:   l.strategy,
		Prompt:     session.Prompt,
		Model:      whisper.ParseModel(session.Model),
	}

	result := <-l.results
	if result.Err != nil {
		l.logger.Error("transcription job failed", "error", result.Err)
		return l.transcriptionResponse(nil, mode), false, 1
	}

	text := result.Timing.Text
	l.maybeInjectCommand(text)

	if result.Empty {
		return l.transcriptionResponse(nil, mode), false, 0
	}
	return l.transcriptionResponse(&text, mode), false, 0
}

func (l *Loop) transcriptionResponse(content *string, mode fsm.Mode) Response {
	return Response{Kind: ResponseTranscription, Content: content, Mode: mode}
}

// maybeInjectCommand recognizes a control phrase in a freshly transcribed
// utterance and, if matched, enqueues it back onto this loop's own command
// stream via injector. It is a no-op until SetInjector is called.
func (l *Loop) maybeInjectCommand(text string) {
	if l.injector == nil {
		return
	}
	if cmd, ok := recognizeInjectedCommand(text); ok {
		l.injector(cmd)
	}
}

// reduceAudioMessages accumulates a session's resampled mono samples,
// panicking on the first in-band error so the capture goroutine's
// recover()-to-error boundary converts it to ErrThreadPanic at Stop().
func reduceAudioMessages(in <-chan audio.AudioMessage) []float32 {
	var samples []float32
	for msg := range in {
		if msg.Err != nil {
			panic(msg.Err)
		}
		samples = append(samples, msg.Data)
	}
	return samples
}
