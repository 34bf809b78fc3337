package audio

import (
	"sync"

	sincresample "github.com/tphakala/go-audio-resampler"
)

// TargetSampleRate is the canonical rate talkd delivers to the transcription worker.
const TargetSampleRate = 16000

// AudioMessage is one item on the sink channel: either a resampled mono
// sample, or an in-band error carried in Err.
//
// The Processor only ever emits samples; it never sets Err. A send that
// fails because the sink channel is closed is recovered and the sample is
// dropped, with no message reaching the sink.
type AudioMessage struct {
	Data float32
	Err  error
}

// resampler is the per-channel sinc interpolation capability the Processor
// depends on; satisfied by *sincresample.SincResampler in production and
// by a fixture in tests.
type resampler interface {
	Process(in []float32) []float32
}

// Processor resamples interleaved frames from a device's native rate and
// channel count down to 16kHz mono, emitting one AudioMessage per output
// sample. It is safe for concurrent WriteFrames calls from a realtime
// device callback only insofar as the mutex is held for one callback's
// duration — it must never block on anything else.
type Processor struct {
	channels uint8
	sink     chan<- AudioMessage

	mu         sync.Mutex
	resamplers []resampler
}

// NewProcessor builds a Processor dispatched on channels (1 or 2 only;
// callers must have already rejected other counts with
// ErrInvalidChannelCount).
func NewProcessor(deviceRate uint32, channels uint8, sink chan<- AudioMessage) *Processor {
	resamplers := make([]resampler, channels)
	for i := range resamplers {
		resamplers[i] = sincresample.New(int(deviceRate), TargetSampleRate, sincresample.Taps128)
	}
	return &Processor{channels: channels, sink: sink, resamplers: resamplers}
}

// newProcessorWithResamplers builds a Processor around caller-supplied
// resamplers, used by tests to pin downmix/emission behavior without
// depending on the real sinc interpolator's numeric output.
func newProcessorWithResamplers(channels uint8, sink chan<- AudioMessage, resamplers []resampler) *Processor {
	return &Processor{channels: channels, sink: sink, resamplers: resamplers}
}

// WriteFrames resamples one batch of interleaved frames and emits the
// resulting mono samples (downmixed by per-frame averaging when the
// source is stereo) onto the sink channel.
//
// Each channel is resampled independently through its own sinc
// interpolator; this is equivalent to resampling interleaved multi-channel
// frames directly, since sinc interpolation operates per-sample-stream.
func (p *Processor) WriteFrames(interleaved []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := int(p.channels)
	if n == 0 || len(interleaved) < n {
		return
	}

	perChannel := make([][]float32, n)
	for c := 0; c < n; c++ {
		perChannel[c] = make([]float32, 0, len(interleaved)/n)
	}
	for i := 0; i+n <= len(interleaved); i += n {
		for c := 0; c < n; c++ {
			perChannel[c] = append(perChannel[c], interleaved[i+c])
		}
	}

	resampled := make([][]float32, n)
	for c := 0; c < n; c++ {
		resampled[c] = p.resamplers[c].Process(perChannel[c])
	}

	frames := len(resampled[0])
	for c := 1; c < n; c++ {
		if len(resampled[c]) < frames {
			frames = len(resampled[c])
		}
	}

	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < n; c++ {
			sum += resampled[c][i]
		}
		p.emit(AudioMessage{Data: sum / float32(n)})
	}
}

// emit sends msg on the sink channel. procnode backs this channel with an
// unbounded queue, so the send only ever waits on the draining goroutine's
// scheduling, never on the consumer keeping pace — a closed channel still
// degrades to a recovered panic rather than crashing the realtime callback.
func (p *Processor) emit(msg AudioMessage) {
	defer func() {
		if r := recover(); r != nil {
			// sink channel closed underneath us; nothing left to notify.
			_ = r
		}
	}()
	p.sink <- msg
}
