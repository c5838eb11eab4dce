package encode

// fallbackCodecs is the codec chain tried when the configured encoder is
// not available: the portable OpenH264 build first, then the universally
// present mpeg4 encoder as a last resort.
var fallbackCodecs = []string{"libopenh264", "mpeg4"}

// RetryState tracks the codec fallback chain across encode attempts.
type RetryState struct {
	// Codec is the encoder for the current attempt.
	Codec string

	remaining []string
}

// NewRetryState initializes the fallback chain starting from the
// configured codec. Codecs already equal to the configured one are
// dropped from the chain.
func NewRetryState(codec string) *RetryState {
	rs := &RetryState{Codec: codec}
	for _, c := range fallbackCodecs {
		if c != codec {
			rs.remaining = append(rs.remaining, c)
		}
	}
	return rs
}

// Advance inspects stderr from a failed encode and, when the failure is a
// missing encoder and fallbacks remain, switches to the next codec and
// reports true. Any other failure is final.
func (s *RetryState) Advance(stderr string) bool {
	if !MatchEncoderUnavailable(stderr) || MatchDemuxerIssue(stderr) {
		return false
	}
	if len(s.remaining) == 0 {
		return false
	}
	s.Codec = s.remaining[0]
	s.remaining = s.remaining[1:]
	return true
}
