package audio

// Provider is the read side of the APU a playback frontend needs: pulling
// mixed samples and toggling the debug mute/solo controls, without exposing
// the register-level write path a bus uses to drive the chip.
type Provider interface {
	// GetSamples retrieves count interleaved stereo sample pairs, padded
	// with silence when fewer are buffered.
	GetSamples(count int) []int16

	// Debugging controls.
	ToggleChannel(channel int)
	SoloChannel(channel int)
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
}

var _ Provider = (*APU)(nil)
