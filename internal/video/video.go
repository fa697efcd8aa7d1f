package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/ivlev/fractal2video/internal/renderer"
)

// Encoder принимает кадры строго по порядку и собирает из них видео.
type Encoder interface {
	Encode(f *renderer.Frame, pts time.Duration) error
	Finish() error
}

// Options описывает выходной поток.
type Options struct {
	Output  string
	Width   int
	Height  int
	FPS     int
	Codec   string
	Quality int
}

// FFmpegEncoder передает кадры в один процесс ffmpeg через stdin.
type FFmpegEncoder struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	log    bytes.Buffer
	frames int
}

// NewFFmpegEncoder запускает ffmpeg. Процесс завершается по Finish или при
// отмене ctx.
func NewFFmpegEncoder(ctx context.Context, opts Options) (*FFmpegEncoder, error) {
	if opts.Width < 1 || opts.Height < 1 || opts.FPS < 1 {
		return nil, fmt.Errorf("invalid stream parameters %dx%d@%d", opts.Width, opts.Height, opts.FPS)
	}
	if opts.Codec == "" {
		opts.Codec = "libx264"
	}

	e := &FFmpegEncoder{opts: opts}
	e.cmd = exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(opts)...)
	e.cmd.Stdout = &e.log
	e.cmd.Stderr = &e.log

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return e, nil
}

func buildFFmpegArgs(opts Options) []string {
	// Используем rawvideo через stdin для исключения I/O на диск
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
	}

	// yuv420p требует четных размеров
	if opts.Width%2 != 0 || opts.Height%2 != 0 {
		args = append(args, "-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2")
	}

	args = append(args,
		"-pix_fmt", "yuv420p",
		"-c:v", opts.Codec,
	)
	args = append(args, qualityArgs(opts.Codec, opts.Quality)...)
	args = append(args, "-movflags", "+faststart", opts.Output)
	return args
}

// Качество в зависимости от энкодера
func qualityArgs(codec string, quality int) []string {
	switch codec {
	case "h264_videotoolbox":
		// VideoToolbox не везде поддерживает -q:v. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// PresentationTime возвращает время показа кадра i без накопления ошибки.
func PresentationTime(i, fps int) time.Duration {
	return time.Duration(i) * time.Second / time.Duration(fps)
}

// Encode записывает очередной кадр. Кадры должны идти подряд с шагом 1/fps.
func (e *FFmpegEncoder) Encode(f *renderer.Frame, pts time.Duration) error {
	if f.Width != e.opts.Width || f.Height != e.opts.Height {
		return fmt.Errorf("frame %d is %dx%d, stream is %dx%d", e.frames, f.Width, f.Height, e.opts.Width, e.opts.Height)
	}
	if want := PresentationTime(e.frames, e.opts.FPS); pts != want {
		return fmt.Errorf("frame %d has presentation time %v, want %v", e.frames, pts, want)
	}
	if err := writeRawRGB(e.stdin, f); err != nil {
		return fmt.Errorf("write raw error at frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames возвращает число записанных кадров.
func (e *FFmpegEncoder) Frames() int {
	return e.frames
}

// Finish закрывает stdin и ждет, пока ffmpeg допишет файл.
func (e *FFmpegEncoder) Finish() error {
	if err := e.stdin.Close(); err != nil {
		return fmt.Errorf("close stdin error: %w", err)
	}
	if e.cmd == nil {
		return nil
	}
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, e.log.String())
	}
	return nil
}

func writeRawRGB(w io.Writer, f *renderer.Frame) error {
	n, err := w.Write(f.Pix)
	if err != nil {
		return err
	}
	if n != len(f.Pix) {
		return io.ErrShortWrite
	}
	return nil
}
