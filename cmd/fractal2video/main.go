package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ivlev/fractal2video/internal/config"
	"github.com/ivlev/fractal2video/internal/director"
	"github.com/ivlev/fractal2video/internal/engine"
	"github.com/ivlev/fractal2video/internal/fractal"
	"github.com/ivlev/fractal2video/internal/palette"
	"github.com/ivlev/fractal2video/internal/renderer"
	"github.com/ivlev/fractal2video/internal/system"
	"github.com/ivlev/fractal2video/internal/video"
)

// Переопределяется при сборке: -ldflags "-X main.version=..."
var version = "dev"

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var (
	propertiesPath string
	framesPath     string
	outputPath     string
	gradientName   string
	presetName     string
	width          int
	height         int
	fps            int
	workers        int
	supersample    int
	quality        int
	showStats      bool
	showGraph      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fractal2video",
		Short:         "offline Mandelbrot zoom video renderer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&propertiesPath, "properties", "p", "", "Файл настроек рендера (.yaml или .toml)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "Ширина (0 - из настроек)")
	rootCmd.PersistentFlags().IntVar(&height, "height", 0, "Высота (0 - из настроек)")
	rootCmd.PersistentFlags().StringVarP(&gradientName, "gradient", "g", "", "Градиент (см. команду gradients)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Потоки рендеринга (0 - все ядра)")
	rootCmd.PersistentFlags().IntVar(&supersample, "supersample", 0, "Суперсэмплинг: рендер в N раз больше с уменьшением")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Показать отчет о производительности")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the scenario into an H.264 video",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&framesPath, "frames", "f", "", "Сценарий (по умолчанию: frames.yaml/frames.toml в текущей папке)")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Путь к видео")
	renderCmd.Flags().IntVar(&fps, "fps", 0, "FPS (0 - из настроек)")
	renderCmd.Flags().IntVarP(&quality, "quality", "q", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [MAX_ITER X Y RADIUS SHIFT]",
		Short: "render a single still image",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && presetName == "" {
				return fmt.Errorf("укажите 5 аргументов или --preset")
			}
			if len(args) != 0 && len(args) != 5 {
				return fmt.Errorf("ожидается 5 аргументов, получено %d", len(args))
			}
			return nil
		},
		RunE: runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&presetName, "preset", "", "Известная область множества (см. команду presets)")
	snapshotCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Путь к PNG/JPEG")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "print the expanded frame sequence",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	}
	planCmd.Flags().StringVarP(&framesPath, "frames", "f", "", "Сценарий (по умолчанию: frames.yaml/frames.toml в текущей папке)")
	planCmd.Flags().BoolVar(&showGraph, "graph", false, "Нарисовать графики радиуса и сдвига палитры")

	gradientsCmd := &cobra.Command{
		Use:   "gradients",
		Short: "list available color gradients",
		Args:  cobra.NoArgs,
		RunE:  runGradients,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list landmark viewports",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	}

	rootCmd.AddCommand(renderCmd, snapshotCmd, planCmd, gradientsCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("[-] Ошибка: ")+err.Error())
		os.Exit(1)
	}
}

// loadConfig собирает конфигурацию: значения по умолчанию, файл настроек,
// затем флаги командной строки.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	props, err := config.Load(propertiesPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		props.Width = width
	}
	if flags.Changed("height") {
		props.Height = height
	}
	if flags.Changed("fps") {
		props.FPS = fps
	}
	if flags.Changed("gradient") {
		props.Gradient = gradientName
	}
	if flags.Changed("workers") {
		props.Workers = workers
	}
	if flags.Changed("supersample") {
		props.Supersample = supersample
	}
	if flags.Changed("quality") {
		props.Quality = quality
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if props.Workers == 0 {
		props.Workers = system.DefaultWorkers()
	}

	return &config.Config{
		Properties:   props,
		ShowStats:    showStats,
		BuildVersion: version,
	}, nil
}

// resolveEncoder выбирает энкодер и качество только для команд, пишущих видео.
func resolveEncoder(cfg *config.Config) {
	cfg.VideoEncoder = cfg.Encoder
	if cfg.VideoEncoder == "" || cfg.VideoEncoder == config.DefaultEncoder {
		cfg.VideoEncoder = system.BestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Println(okStyle.Render("[*] Обнаружено аппаратное ускорение: " + cfg.VideoEncoder))
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}
}

func newRenderer(cfg *config.Config) (*renderer.Renderer, error) {
	fn, err := fractal.New(cfg.Fractal)
	if err != nil {
		return nil, err
	}
	gradients, err := palette.NewRegistry(cfg.Gradients)
	if err != nil {
		return nil, err
	}
	grad, err := gradients.Lookup(cfg.Gradient)
	if err != nil {
		return nil, err
	}
	r := renderer.New(fn, grad, cfg.Workers)
	r.Supersample = cfg.Supersample
	return r, nil
}

func loadScenario() (*director.Scenario, string, error) {
	path := framesPath
	if path == "" {
		found, err := director.FindScenario(".")
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	sc, err := director.ReadScenario(path)
	if err != nil {
		return nil, "", err
	}
	return sc, path, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outputPath != "" {
		cfg.Output = outputPath
	}

	sc, path, err := loadScenario()
	if err != nil {
		return err
	}
	cfg.FramesPath = path
	fmt.Println(dimStyle.Render("[*] Используется сценарий: " + path))

	if err := system.CheckFFmpeg(); err != nil {
		return err
	}
	resolveEncoder(cfg)

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	project := engine.NewVideoProject(cfg, sc, r)
	project.Progress = func(done, total int) {
		fmt.Printf("\r%s %s", titleStyle.Render("[>] Ready:"), fmt.Sprintf("%d/%d", done, total))
		if done == total {
			fmt.Println()
		}
	}
	if err := project.Run(cmd.Context()); err != nil {
		fmt.Println()
		return fmt.Errorf("ошибка проекта: %w", err)
	}

	fmt.Println(okStyle.Render("[+++] Успех! Результат: " + cfg.Output))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outputPath != "" {
		cfg.SnapshotOutput = outputPath
	}

	var kf director.Keyframe
	if len(args) == 5 {
		kf, err = parseKeyframe(args)
	} else {
		kf, err = director.Preset(presetName)
	}
	if err != nil {
		return err
	}
	if err := kf.Validate(); err != nil {
		return err
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	if err := engine.Snapshot(cfg, r, kf); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("[+++] Успех! Результат: " + cfg.SnapshotOutput))
	return nil
}

// parseKeyframe разбирает MAX_ITER X Y RADIUS SHIFT.
func parseKeyframe(args []string) (director.Keyframe, error) {
	iter, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return director.Keyframe{}, fmt.Errorf("неверное число итераций %q: %w", args[0], err)
	}
	vals := make([]float64, 4)
	names := []string{"x", "y", "radius", "shift"}
	for i := range vals {
		vals[i], err = strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return director.Keyframe{}, fmt.Errorf("неверное значение %s %q: %w", names[i], args[i+1], err)
		}
	}
	return director.Keyframe{
		MaxIterations: uint32(iter),
		X:             vals[0],
		Y:             vals[1],
		Radius:        vals[2],
		ColorShift:    vals[3],
	}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, path, err := loadScenario()
	if err != nil {
		return err
	}
	seq, err := sc.Sequence()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d frames, %.2fs @ %d FPS",
		path, len(seq), video.PresentationTime(len(seq), cfg.FPS).Seconds(), cfg.FPS)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tTIME\tITER\tX\tY\tRADIUS\tSHIFT")
	for i, kf := range seq {
		fmt.Fprintf(w, "%d\t%.3fs\t%d\t%.12g\t%.12g\t%.6g\t%.4f\n",
			i, video.PresentationTime(i, cfg.FPS).Seconds(), kf.MaxIterations, kf.X, kf.Y, kf.Radius, kf.ColorShift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !showGraph || len(seq) < 2 {
		return nil
	}

	zoom := make([]float64, len(seq))
	shift := make([]float64, len(seq))
	for i, kf := range seq {
		zoom[i] = -math.Log10(kf.Radius)
		shift[i] = kf.ColorShift
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(zoom,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("zoom depth (-log10 radius)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(shift,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("color gradient shift"),
	))
	return nil
}

func runGradients(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gradients, err := palette.NewRegistry(cfg.Gradients)
	if err != nil {
		return err
	}
	for _, name := range gradients.Names() {
		line := "  " + name
		if name == cfg.Gradient {
			line = okStyle.Render("* " + name)
		}
		fmt.Println(line)
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tITER\tX\tY\tRADIUS")
	for _, name := range director.PresetNames() {
		kf, err := director.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\n", name, kf.MaxIterations, kf.X, kf.Y, kf.Radius)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println(warnStyle.Render("[!] Пример: fractal2video snapshot --preset seahorse_valley"))
	return nil
}
