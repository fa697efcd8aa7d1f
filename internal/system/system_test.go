package system

import (
	"image"
	"testing"
)

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    string
	}{
		{"empty", "", "libx264"},
		{"software only", " V....D libx264   libx264 H.264 / AVC", "libx264"},
		{"nvenc", " V....D libx264\n V....D h264_nvenc  NVIDIA NVENC H.264 encoder", "h264_nvenc"},
		{"videotoolbox wins", " V....D h264_nvenc\n V....D h264_videotoolbox", "h264_videotoolbox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickEncoder(tt.listing); got != tt.want {
				t.Errorf("pickEncoder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n < 1 {
		t.Errorf("DefaultWorkers() = %d, want >= 1", n)
	}
}

func TestLookaheadLimit(t *testing.T) {
	if got := LookaheadLimit(0, 1024); got != 1 {
		t.Errorf("LookaheadLimit(0, 1KiB) = %d, want 1", got)
	}
	if got := LookaheadLimit(3, 0); got != 3 {
		t.Errorf("LookaheadLimit(3, 0) = %d, want 3", got)
	}
	if got := LookaheadLimit(4, 1024); got < 1 || got > 4 {
		t.Errorf("LookaheadLimit(4, 1KiB) = %d, want within [1, 4]", got)
	}
	// No machine has a quarter of 2^62 bytes free.
	if got := LookaheadLimit(8, 1<<62); got != 1 {
		t.Errorf("LookaheadLimit(8, huge) = %d, want 1", got)
	}
}

func TestSizedPool(t *testing.T) {
	created := 0
	pool := NewSizedPool(func(size image.Point) []byte {
		created++
		return make([]byte, size.X*size.Y)
	})

	a := pool.Get(image.Pt(4, 2))
	if len(a) != 8 {
		t.Fatalf("len = %d, want 8", len(a))
	}
	b := pool.Get(image.Pt(3, 3))
	if len(b) != 9 {
		t.Fatalf("len = %d, want 9", len(b))
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	// Unknown sizes are dropped silently.
	pool.Put(image.Pt(100, 100), make([]byte, 1))
}

func TestImagePool(t *testing.T) {
	img := GetImage(image.Pt(16, 9))
	if img.Rect != image.Rect(0, 0, 16, 9) {
		t.Fatalf("Rect = %v", img.Rect)
	}
	PutImage(img)
	PutImage(nil)

	again := GetImage(image.Pt(16, 9))
	if again.Rect.Size() != image.Pt(16, 9) {
		t.Errorf("Rect = %v", again.Rect)
	}
}
