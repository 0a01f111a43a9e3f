// Package events defines the message contracts of the synthesis pipeline.
package events

// SynthesisRequestedEvent asks the service to render one text object into
// audio. TextKey names the UTF-8 text payload in the text bucket.
type SynthesisRequestedEvent struct {
	JobID          string  `json:"job_id"`
	TextKey        string  `json:"text_key"`
	Voice          string  `json:"voice"`
	StyleID        int     `json:"style_id"`
	SpeakerID      int64   `json:"speaker_id"`
	SDPRatio       float64 `json:"sdp_ratio"`
	LengthScale    float64 `json:"length_scale"`
	StyleWeight    float64 `json:"style_weight"`
	SplitSentences bool    `json:"split_sentences"`
}

// AudioRenderedEvent reports the finished WAV object for one synthesis
// job.
type AudioRenderedEvent struct {
	JobID      string `json:"job_id"`
	AudioKey   string `json:"audio_key"`
	SampleRate int    `json:"sample_rate"`
}
