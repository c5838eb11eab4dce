package pipeline

import "fmt"

// maxFrames is the number of distinct five-digit frame labels. Rendering
// more frames would silently break the zero-padded naming scheme, so the
// plan is rejected up front instead.
const maxFrames = 100000

// sampledPositions returns the 0-based snapshot positions included in the
// video: the first snapshot and every stride-th one after it.
func sampledPositions(n, stride int) []int {
	if n <= 0 {
		return nil
	}
	positions := make([]int, 0, n/stride+1)
	for pos := 0; pos < n; pos += stride {
		positions = append(positions, pos)
	}
	return positions
}

// checkFrameCount rejects plans whose frame labels would overflow five
// digits.
func checkFrameCount(n int) error {
	if n > maxFrames {
		return fmt.Errorf("%d frames exceed the five-digit frame label space (max %d)", n, maxFrames)
	}
	return nil
}
