package main

import (
	"bufio"
	"fmt"
	"os"

	"commanderx16emu/internal/scheduler"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

// writePPM dumps the machine's current video frame buffer as a binary PPM
// (P6) image, the simplest format that needs no external encoder package.
func writePPM(path string, m *scheduler.Machine) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P6\n%d %d\n255\n", frameWidth, frameHeight)
	for _, px := range m.Video.FrameBuffer {
		r := uint8(px)
		g := uint8(px >> 8)
		b := uint8(px >> 16)
		w.Write([]byte{r, g, b})
	}
	return w.Flush()
}
