package encode

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked by
// [RetryState.Advance] to decide whether a failure is a missing-encoder
// problem worth retrying with a fallback codec.
var (
	reEncoderUnavailable = regexp.MustCompile(
		`(?i)Unknown encoder|` +
			`Encoder not found|` +
			`encoder '.+' is not available|` +
			`Error while opening encoder for output stream`)

	reDemuxerIssue = regexp.MustCompile(
		`(?i)Unknown input format: 'concat'|` +
			`concat demuxer|Impossible to open '`)
)

// MatchEncoderUnavailable reports whether stderr indicates the requested
// video encoder is missing from this ffmpeg build.
func MatchEncoderUnavailable(stderr string) bool {
	return reEncoderUnavailable.MatchString(stderr)
}

// MatchDemuxerIssue reports whether stderr indicates the frame list itself
// could not be read. These failures are never retried.
func MatchDemuxerIssue(stderr string) bool {
	return reDemuxerIssue.MatchString(stderr)
}
