// Package encode turns an ordered list of frame images into a video by
// driving ffmpeg's concat demuxer, with a codec fallback chain for hosts
// whose ffmpeg build lacks the requested encoder.
package encode

import (
	"fmt"
	"os"
	"strings"
)

// WriteList writes a concat-demuxer list file naming the frames in the
// given order. Each entry carries an explicit duration so the output
// timing does not depend on demuxer defaults; the final frame is listed
// once more because the concat demuxer drops the last duration otherwise.
func WriteList(path string, frames []string, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate %d", fps)
	}

	var sb strings.Builder
	sb.WriteString("ffconcat version 1.0\n")
	for _, frame := range frames {
		fmt.Fprintf(&sb, "file '%s'\n", quoteListPath(frame))
		fmt.Fprintf(&sb, "duration %g\n", 1/float64(fps))
	}
	fmt.Fprintf(&sb, "file '%s'\n", quoteListPath(frames[len(frames)-1]))

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write frame list: %w", err)
	}
	return nil
}

// quoteListPath escapes single quotes for the concat list format, which
// has no in-quote escape and requires closing and reopening the string.
func quoteListPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
