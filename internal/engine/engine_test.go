package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/fractal2video/internal/config"
	"github.com/ivlev/fractal2video/internal/director"
	"github.com/ivlev/fractal2video/internal/easing"
	"github.com/ivlev/fractal2video/internal/fractal"
	"github.com/ivlev/fractal2video/internal/palette"
	"github.com/ivlev/fractal2video/internal/renderer"
	"github.com/ivlev/fractal2video/internal/video"
)

type fakeEncoder struct {
	opts      video.Options
	pts       []time.Duration
	frames    [][]byte
	failAt    int
	finishErr error
	finished  bool
}

func (e *fakeEncoder) Encode(f *renderer.Frame, pts time.Duration) error {
	if e.failAt > 0 && len(e.pts) == e.failAt {
		return errors.New("disk full")
	}
	e.pts = append(e.pts, pts)
	e.frames = append(e.frames, bytes.Clone(f.Pix))
	return nil
}

func (e *fakeEncoder) Finish() error {
	e.finished = true
	return e.finishErr
}

func testConfig(dir string) *config.Config {
	props := config.Default()
	props.Width, props.Height, props.FPS = 32, 18, 10
	props.Lookahead = 2
	props.Output = filepath.Join(dir, "out.mp4")
	props.SnapshotOutput = filepath.Join(dir, "snap.png")
	return &config.Config{Properties: props, VideoEncoder: "libx264", BuildVersion: "test"}
}

func shiftScenario() *director.Scenario {
	return &director.Scenario{
		Frames: []director.Keyframe{
			{MaxIterations: 100, X: -0.5, Y: 0, Radius: 1.5, ColorShift: 0},
			{MaxIterations: 100, X: -0.5, Y: 0, Radius: 1.5, ColorShift: 0.5},
			{MaxIterations: 150, X: -0.75, Y: 0.1, Radius: 0.2, ColorShift: 0.5},
		},
		Transitions: []director.Transition{
			{From: 0, To: 1, Easing: easing.Linear, Steps: 4},
			{From: 1, To: 2, Easing: easing.InOutCubic, Steps: 3},
		},
	}
}

func newProject(t *testing.T, enc *fakeEncoder) *VideoProject {
	t.Helper()
	cfg := testConfig(t.TempDir())
	r := renderer.New(fractal.Mandelbrot{}, palette.Stops{{A: 255}, {R: 255, G: 200, B: 40, A: 255}}, 3)
	p := NewVideoProject(cfg, shiftScenario(), r)
	p.NewEncoder = func(_ context.Context, opts video.Options) (video.Encoder, error) {
		enc.opts = opts
		return enc, nil
	}
	p.Progress = func(done, total int) {}
	return p
}

func TestRunEncodesSequenceInOrder(t *testing.T) {
	enc := &fakeEncoder{}
	p := newProject(t, enc)

	if err := p.Run(testContext(t)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !enc.finished {
		t.Error("encoder was not finished")
	}
	if len(enc.pts) != 7 {
		t.Fatalf("encoded %d frames, want 7", len(enc.pts))
	}
	for i, pts := range enc.pts {
		if want := time.Duration(i) * 100 * time.Millisecond; pts != want {
			t.Errorf("frame %d pts = %v, want %v", i, pts, want)
		}
	}
	if enc.opts.Width != 32 || enc.opts.Height != 18 || enc.opts.FPS != 10 || enc.opts.Codec != "libx264" {
		t.Errorf("unexpected encoder options %+v", enc.opts)
	}

	// Frames 1-3 only move the color shift and frame 4 starts the second
	// transition on the same viewport, so all four reuse the iteration field.
	if p.Stats.CacheHits != 4 {
		t.Errorf("CacheHits = %d, want 4", p.Stats.CacheHits)
	}
	if p.Stats.Frames != 7 {
		t.Errorf("Stats.Frames = %d, want 7", p.Stats.Frames)
	}
}

func TestRunMatchesStandaloneRenders(t *testing.T) {
	enc := &fakeEncoder{}
	p := newProject(t, enc)
	if err := p.Run(testContext(t)); err != nil {
		t.Fatal(err)
	}

	seq, err := p.Scenario.Sequence()
	if err != nil {
		t.Fatal(err)
	}
	for i, kf := range seq {
		r := renderer.New(fractal.Mandelbrot{}, p.Renderer.Gradient, 1)
		want, err := r.Render(kf, 32, 18)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(enc.frames[i], want.Pix) {
			t.Errorf("frame %d differs from a standalone render", i)
		}
	}
}

func TestRunPropagatesEncoderErrors(t *testing.T) {
	enc := &fakeEncoder{failAt: 2}
	p := newProject(t, enc)

	err := p.Run(testContext(t))
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(enc.pts) != 2 {
		t.Errorf("encoded %d frames before the failure, want 2", len(enc.pts))
	}
}

// installFailingFFmpeg puts an ffmpeg on PATH that rejects its encoder the way
// a listed but unusable hardware encoder does.
func installFailingFFmpeg(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for ffmpeg needs a POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"Unknown encoder 'h264_nvenc'\" >&2\nexit 1\n"
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
}

func TestRunReportsFFmpegOutput(t *testing.T) {
	installFailingFFmpeg(t)

	cfg := testConfig(t.TempDir())
	cfg.VideoEncoder = "h264_nvenc"
	r := renderer.New(fractal.Mandelbrot{}, palette.Stops{{A: 255}, {R: 255, A: 255}}, 2)
	p := NewVideoProject(cfg, shiftScenario(), r)
	p.Progress = func(done, total int) {}

	err := p.Run(testContext(t))
	if err == nil {
		t.Fatal("expected an error from a failing ffmpeg")
	}
	if !strings.Contains(err.Error(), "Unknown encoder 'h264_nvenc'") {
		t.Errorf("error does not carry the ffmpeg output: %v", err)
	}
}

func TestRunJoinsFinishErrorOnFailure(t *testing.T) {
	enc := &fakeEncoder{failAt: 1, finishErr: errors.New("ffmpeg said no")}
	p := newProject(t, enc)

	err := p.Run(testContext(t))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), "ffmpeg said no") {
		t.Errorf("error = %v, want both the encode and the finish error", err)
	}
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	enc := &fakeEncoder{}
	p := newProject(t, enc)
	p.Scenario.Transitions[1].To = 9

	if err := p.Run(testContext(t)); err == nil {
		t.Fatal("expected an error for an out-of-range transition")
	}
	if len(enc.pts) != 0 {
		t.Errorf("nothing should be encoded, got %d frames", len(enc.pts))
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	enc := &fakeEncoder{}
	p := newProject(t, enc)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := testConfig(t.TempDir())
	r := renderer.New(fractal.Mandelbrot{}, palette.Stops{{A: 255}, {R: 255, A: 255}}, 2)
	kf, err := director.Preset("seahorse_valley")
	if err != nil {
		t.Fatal(err)
	}

	if err := Snapshot(cfg, r, kf); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	info, err := os.Stat(cfg.SnapshotOutput)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("snapshot is empty")
	}
}
