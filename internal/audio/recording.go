package audio

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/rbright/talkd/internal/notifier"
	"github.com/rbright/talkd/internal/procnode"
)

// Recording owns one capture session's lifecycle: a controller gating the
// capture goroutine, the capture goroutine itself (producing the final
// SupportedConfig once the stream halts), and the sink goroutine draining
// resampled samples into the caller-supplied reduction.
type Recording struct {
	controller *notifier.Controller

	captureDone chan captureResult
	sinkResult  <-chan []float32
}

type captureResult struct {
	config SupportedConfig
	err    error
}

// Controlled resolves a device/config pair for session, starts the sink
// node, and spawns the capture goroutine. The returned Recording is not
// yet started; call Start to begin capturing.
func Controlled(ctx context.Context, session Session, sink *procnode.Node[AudioMessage, []float32]) (*Recording, error) {
	configs, err := SupportedConfigs(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ErrNoSupportedConfigs
	}
	cfg := configs[0]

	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, cfg.Channels)
	}

	sinkSend, sinkRecv := sink.Run()

	controller := notifier.NewController()
	done := make(chan captureResult, 1)

	go runCapture(controller, cfg, sinkSend, done)

	return &Recording{
		controller:  controller,
		captureDone: done,
		sinkResult:  sinkRecv,
	}, nil
}

// Start transitions the controller to Started and blocks until the capture
// goroutine has transitioned to Recording, which it does right after
// starting the Pulse record stream. It does not wait for the first
// captured batch to be delivered.
func (r *Recording) Start() {
	r.controller.Start()
	r.controller.WaitFor(notifier.Recording)
}

// Stop transitions the controller to Stopped, joins the capture goroutine
// to recover the final stream config, then joins the sink goroutine to
// recover the accumulated sample buffer.
func (r *Recording) Stop() (SupportedConfig, []float32, error) {
	r.controller.Stop()

	result := <-r.captureDone
	if result.err != nil {
		return SupportedConfig{}, nil, result.err
	}

	samples := <-r.sinkResult
	return result.config, samples, nil
}

// runCapture opens a Pulse record stream at the device's native rate and
// channel count, feeds each callback batch through a DSP Processor, and
// reports the final config (or a recovered panic) on done.
func runCapture(controller *notifier.Controller, cfg SupportedConfig, sink chan<- AudioMessage, done chan<- captureResult) {
	defer func() {
		if r := recover(); r != nil {
			done <- captureResult{err: &ErrThreadPanic{Message: fmt.Sprintf("%v\n%s", r, debug.Stack())}}
		}
	}()

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("talkd"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		done <- captureResult{err: fmt.Errorf("connect pulse server: %w", err)}
		return
	}
	defer client.Close()

	source, err := client.SourceByID(cfg.Device.ID)
	if err != nil {
		done <- captureResult{err: fmt.Errorf("resolve source %q: %w", cfg.Device.ID, err)}
		return
	}

	processor := NewProcessor(cfg.SampleRate, cfg.Channels, sink)

	writer := pulse.NewWriter(processorWriter{processor: processor, channels: cfg.Channels}, pulseproto.FormatFloat32LE)

	opts := []pulse.RecordOption{
		pulse.RecordSource(source),
		pulse.RecordSampleRate(cfg.SampleRate),
		pulse.RecordMediaName("talkd dictation"),
	}
	if cfg.Channels == 1 {
		opts = append(opts, pulse.RecordMono)
	} else {
		opts = append(opts, pulse.RecordStereo)
	}

	controller.WaitFor(notifier.Started)

	stream, err := client.NewRecord(writer, opts...)
	if err != nil {
		done <- captureResult{err: fmt.Errorf("create pulse record stream: %w", err)}
		return
	}

	stream.Start()
	controller.SetRecording()

	controller.WaitFor(notifier.Stopped)

	stream.Stop()
	stream.Close()
	close(sink)

	done <- captureResult{config: cfg}
}

// processorWriter adapts a Processor to the io.Writer the Pulse client
// writes raw interleaved float32 bytes into.
type processorWriter struct {
	processor *Processor
	channels  uint8
}

func (w processorWriter) Write(b []byte) (int, error) {
	samples := bytesToFloat32LE(b)
	w.processor.WriteFrames(samples)
	return len(b), nil
}

func bytesToFloat32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
