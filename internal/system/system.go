package system

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Доля свободной памяти, которую может занять очередь готовых кадров.
const lookaheadMemoryShare = 4

var (
	encoderOnce sync.Once
	bestEncoder string
)

// DefaultWorkers возвращает число логических ядер для рендеринга.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		log.Printf("[!] Не удалось определить число ядер через gopsutil: %v", err)
		return runtime.NumCPU()
	}
	return n
}

// LookaheadLimit ограничивает глубину очереди кадров так, чтобы буферы
// занимали не больше четверти свободной памяти. Всегда возвращает >= 1.
func LookaheadLimit(requested int, frameBytes uint64) int {
	if requested < 1 {
		requested = 1
	}
	if frameBytes == 0 {
		return requested
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return requested
	}
	limit := vm.Available / lookaheadMemoryShare / frameBytes
	if limit < 1 {
		return 1
	}
	if uint64(requested) > limit {
		fmt.Printf("[!] Очередь кадров уменьшена до %d из-за нехватки памяти\n", limit)
		return int(limit)
	}
	return requested
}

// HostSummary описывает машину для отчета о производительности.
func HostSummary() string {
	var parts []string
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		parts = append(parts, strings.TrimSpace(infos[0].ModelName))
	}
	if n, err := cpu.Counts(true); err == nil {
		parts = append(parts, fmt.Sprintf("%d threads", n))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("%.1f GiB RAM", float64(vm.Total)/(1<<30)))
	}
	if len(parts) == 0 {
		return runtime.GOOS + "/" + runtime.GOARCH
	}
	return strings.Join(parts, ", ")
}

// CheckFFmpeg проверяет, что ffmpeg доступен в PATH.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg не найден в PATH: %w", err)
	}
	return nil
}

// BestH264Encoder выбирает аппаратный H.264 энкодер, если он есть.
// ffmpeg опрашивается один раз за процесс.
func BestH264Encoder() string {
	encoderOnce.Do(func() {
		bestEncoder = pickEncoder(probeEncoders())
	})
	return bestEncoder
}

func probeEncoders() string {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return ""
	}
	return string(out)
}

// Приоритеты:
// 1. MacOS (VideoToolbox)
// 2. NVIDIA (NVENC)
// 3. Software (libx264)
func pickEncoder(listing string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}
