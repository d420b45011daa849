package acquisition

// State is a step of one acquisition run.
type State int

const (
	StateStart State = iota
	StateCaptionLookup
	StateAudioDownload
	StateLocalTranscribe
	StateRemoteTranscribe
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateCaptionLookup:
		return "CAPTION_LOOKUP"
	case StateAudioDownload:
		return "AUDIO_DOWNLOAD"
	case StateLocalTranscribe:
		return "LOCAL_TRANSCRIBE"
	case StateRemoteTranscribe:
		return "REMOTE_TRANSCRIBE"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
