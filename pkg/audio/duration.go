// Package audio provides lightweight introspection of MP3 files.
package audio

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// Duration sums the frame durations of the MP3 at path and reports the
// total in whole seconds. A file without a single MPEG frame is an error.
func Duration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
		frames  int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				// Trailing junk after the last frame (ID3v1 tags and
				// the like) ends the stream, it does not void the sum.
				break
			}
			return 0, err
		}
		frames++
		total += frame.Duration()
	}
	if frames == 0 {
		return 0, errors.New("no mpeg frames")
	}
	return int(total / time.Second), nil
}
