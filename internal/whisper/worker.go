package whisper

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Job is one unit of transcription work submitted to the worker.
type Job struct {
	Audio      []float32
	SampleRate int
	Strategy   Strategy
	Prompt     string
	Model      Model
}

// Result carries the reduced Timing for one Job, or an error if inference
// failed. Per-job failure degrades to an empty Timing at the caller, not a
// worker crash. Empty is true when no sentence survived post-processing
// (silence, pure non-speech audio), distinct from Timing.Text happening to
// be the empty string.
type Result struct {
	Timing Timing
	Empty  bool
	Err    error
}

// TranscriptionWorker spawns the single goroutine that owns every loaded
// whisper.cpp model and inference context. It lazily loads a model on first
// use and keeps it cached for the worker's lifetime; jobs are processed one
// at a time in submission order. The worker exits and closes results/done
// when jobs is closed.
func TranscriptionWorker(modelDir string, jobs <-chan Job) (results <-chan Result, done <-chan struct{}) {
	out := make(chan Result, 1)
	doneCh := make(chan struct{})

	go func() {
		defer close(out)
		defer close(doneCh)

		models := make(map[Model]whisperlib.Model)
		defer func() {
			for _, m := range models {
				_ = m.Close()
			}
		}()

		for job := range jobs {
			timing, empty, err := runJob(modelDir, models, job)
			out <- Result{Timing: timing, Empty: empty, Err: err}
		}
	}()

	return out, doneCh
}

// runJob loads (or reuses) the job's model and runs one inference. The
// second return value is false when no sentence survived post-processing.
func runJob(modelDir string, models map[Model]whisperlib.Model, job Job) (Timing, bool, error) {
	model, err := loadModel(modelDir, models, job.Model)
	if err != nil {
		return Timing{}, false, err
	}

	wctx, err := model.NewContext()
	if err != nil {
		return Timing{}, false, fmt.Errorf("create whisper context: %w", err)
	}

	if job.Prompt != "" {
		wctx.SetInitialPrompt(job.Prompt)
	}
	wctx.SetTokenTimestamps(true)
	wctx.SetMaxSegmentLength(1)
	wctx.SetSplitOnWord(true)
	applyStrategy(wctx, job.Strategy)

	if err := wctx.SetLanguage("en"); err != nil {
		return Timing{}, false, fmt.Errorf("set language: %w", err)
	}

	if err := wctx.Process(job.Audio, nil, nil, nil); err != nil {
		return Timing{}, false, fmt.Errorf("process audio: %w", err)
	}

	var tokens []Timing
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Timing{}, false, fmt.Errorf("read segment: %w", err)
		}
		for _, tok := range segment.Tokens {
			if isInternalToken(tok.Text) {
				continue
			}
			tokens = append(tokens, Timing{
				T0Ms: millisFromDuration(tok.Start),
				T1Ms: millisFromDuration(tok.End),
				Text: tok.Text,
			})
		}
	}

	timing, ok := PostProcess(tokens)
	return timing, ok, nil
}

// loadModel returns the cached context-capable model for id, loading it from
// modelDir on first use.
func loadModel(modelDir string, models map[Model]whisperlib.Model, id Model) (whisperlib.Model, error) {
	if m, ok := models[id]; ok {
		return m, nil
	}

	path := filepath.Join(modelDir, id.Filename())
	m, err := whisperlib.New(path)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}
	models[id] = m
	return m, nil
}

// applyStrategy configures ctx's sampling parameters from s.
func applyStrategy(ctx whisperlib.Context, s Strategy) {
	switch v := s.(type) {
	case Greedy:
		ctx.SetBestOf(v.BestOf)
	case Beam:
		ctx.SetBeamSize(v.BeamSize)
	}
}
