package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/fractal2video/internal/config"
	"github.com/ivlev/fractal2video/internal/director"
	"github.com/ivlev/fractal2video/internal/renderer"
	"github.com/ivlev/fractal2video/internal/system"
	"github.com/ivlev/fractal2video/internal/video"
)

// EncoderFactory открывает выходной поток. Подменяется в тестах.
type EncoderFactory func(ctx context.Context, opts video.Options) (video.Encoder, error)

func ffmpegFactory(ctx context.Context, opts video.Options) (video.Encoder, error) {
	return video.NewFFmpegEncoder(ctx, opts)
}

// ProgressFunc вызывается после кодирования каждого кадра.
type ProgressFunc func(done, total int)

type VideoProject struct {
	Config     *config.Config
	Scenario   *director.Scenario
	Renderer   *renderer.Renderer
	NewEncoder EncoderFactory
	Progress   ProgressFunc

	Stats Stats
}

// Stats собирается во время Run для отчета о производительности.
type Stats struct {
	Frames     int
	CacheHits  int
	Total      time.Duration
	Rendering  time.Duration
	Encoding   time.Duration
	Lookahead  int
	FrameBytes int
}

func NewVideoProject(cfg *config.Config, sc *director.Scenario, r *renderer.Renderer) *VideoProject {
	return &VideoProject{
		Config:     cfg,
		Scenario:   sc,
		Renderer:   r,
		NewEncoder: ffmpegFactory,
	}
}

type renderedFrame struct {
	Index int
	Frame *renderer.Frame
}

// Run рендерит последовательность кадров по порядку и передает их энкодеру.
// Рендеринг опережает кодирование не более чем на Lookahead кадров.
func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()
	p.Stats = Stats{}

	frames, err := p.Scenario.Sequence()
	if err != nil {
		return fmt.Errorf("ошибка построения последовательности: %w", err)
	}
	if len(frames) == 0 {
		return errors.New("сценарий не содержит кадров")
	}

	cfg := p.Config
	if p.Renderer.Pool == nil {
		p.Renderer.Pool = renderer.NewPool()
	}
	frameBytes := cfg.Width * cfg.Height * renderer.BytesPerPixel
	lookahead := system.LookaheadLimit(cfg.Lookahead, uint64(frameBytes))
	p.Stats.Lookahead = lookahead
	p.Stats.FrameBytes = frameBytes

	fmt.Println("--- [PROJECT: FRACTAL ENGINE] ---")
	fmt.Printf("[*] Сценарий: %s | Ключевых кадров: %d | Переходов: %d\n",
		cfg.FramesPath, len(p.Scenario.Frames), len(p.Scenario.Transitions))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кадров: %d | Длительность: %.2fs\n",
		cfg.Width, cfg.Height, cfg.FPS, len(frames), video.PresentationTime(len(frames), cfg.FPS).Seconds())
	fmt.Printf("[*] Энкодер: %s | Потоки: %d | Очередь: %d\n", cfg.VideoEncoder, p.Renderer.Workers, lookahead)
	fmt.Println("-----------------------------")

	encCtx, cancelEnc := context.WithCancel(ctx)
	defer cancelEnc()

	enc, err := p.NewEncoder(encCtx, video.Options{
		Output:  cfg.Output,
		Width:   cfg.Width,
		Height:  cfg.Height,
		FPS:     cfg.FPS,
		Codec:   cfg.VideoEncoder,
		Quality: cfg.Quality,
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	// Каналы для пайплайна
	// frames -> render -> rendered -> encode
	rendered := make(chan renderedFrame, lookahead)
	g, gctx := errgroup.WithContext(ctx)

	// 1. Рендеринг (CPU bound). Параллелизм внутри кадра, кадры строго по порядку.
	g.Go(func() error {
		defer close(rendered)
		for i, kf := range frames {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			f, err := p.Renderer.Render(kf, cfg.Width, cfg.Height)
			p.Stats.Rendering += time.Since(t)
			if err != nil {
				return fmt.Errorf("ошибка рендеринга кадра %d: %w", i, err)
			}
			select {
			case rendered <- renderedFrame{Index: i, Frame: f}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// 2. Кодирование. Кадр возвращается в пул сразу после записи в ffmpeg.
	g.Go(func() error {
		for rf := range rendered {
			t := time.Now()
			err := enc.Encode(rf.Frame, video.PresentationTime(rf.Index, cfg.FPS))
			p.Stats.Encoding += time.Since(t)
			p.Renderer.Pool.Put(rf.Frame)
			if err != nil {
				return fmt.Errorf("ошибка кодирования кадра %d: %w", rf.Index, err)
			}
			p.Stats.Frames++
			p.progress(rf.Index+1, len(frames))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		// Останавливаем ffmpeg, недописанный файл не нужен.
		// Finish возвращает вывод ffmpeg, без него причина обрыва канала теряется.
		cancelEnc()
		return errors.Join(err, enc.Finish())
	}

	t := time.Now()
	if err := enc.Finish(); err != nil {
		return fmt.Errorf("ошибка сборки видео: %w", err)
	}
	p.Stats.Encoding += time.Since(t)
	p.Stats.CacheHits = p.Renderer.Hits
	p.Stats.Total = time.Since(startTime)

	if cfg.ShowStats {
		p.report()
	}
	return nil
}

func (p *VideoProject) progress(done, total int) {
	if p.Progress != nil {
		p.Progress(done, total)
		return
	}
	// Без колбэка печатаем примерно раз в секунду видео
	step := max(p.Config.FPS, 1)
	if done == total || done%step == 0 {
		fmt.Printf("[>] Ready: %d/%d\n", done, total)
	}
}

func (p *VideoProject) report() {
	s := p.Stats
	fps := float64(s.Frames) / s.Total.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Frames: %d (recolored from cache: %d)\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, system.HostSummary(), s.Total.Seconds(), s.Rendering.Seconds(),
		s.Encoding.Seconds(), s.Frames, s.CacheHits, fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Scenario: %s | Frames: %d | %dx%d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.FramesPath),
		s.Frames,
		p.Config.Width, p.Config.Height,
		s.Total.Seconds(),
		s.Rendering.Seconds(),
		s.Encoding.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

// Snapshot рендерит один ключевой кадр в PNG/JPEG.
func Snapshot(cfg *config.Config, r *renderer.Renderer, kf director.Keyframe) error {
	t := time.Now()
	f, err := r.Render(kf, cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("ошибка рендеринга: %w", err)
	}
	if err := video.WriteImage(cfg.SnapshotOutput, f.RGBA()); err != nil {
		return fmt.Errorf("ошибка записи изображения: %w", err)
	}
	if cfg.ShowStats {
		fmt.Printf("[*] Кадр %dx%d отрендерен за %.2fs (%s)\n", cfg.Width, cfg.Height, time.Since(t).Seconds(), kf)
	}
	return nil
}
