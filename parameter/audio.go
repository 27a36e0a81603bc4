package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Edge click played when the list becomes pinned at its start or end
const (
	EdgeClickDuration  = 40 * time.Millisecond
	EdgeClickFrequency = 660.0
	EdgeClickVolume    = 0.25

	// MinSoundGap suppresses clicks fired faster than this
	MinSoundGap = 120 * time.Millisecond
)
