package talks

import "encoding/json"

// Talk statuses reported by the provider. Anything else is treated by
// callers as still processing.
const (
	StatusCreated = "created"
	StatusStarted = "started"
	StatusDone    = "done"
	StatusError   = "error"
)

// TalkScript references the narration audio for a talk.
type TalkScript struct {
	Type     string `json:"type"`
	AudioURL string `json:"audio_url"`
}

// TalkConfig carries provider rendering options.
type TalkConfig struct {
	Fluent   bool    `json:"fluent"`
	PadAudio float64 `json:"pad_audio"`
	Stitch   bool    `json:"stitch"`
}

// CreateTalkRequest is the talk creation payload.
type CreateTalkRequest struct {
	Script    TalkScript `json:"script"`
	SourceURL string     `json:"source_url"`
	Config    TalkConfig `json:"config"`
}

// Talk is the provider's view of a rendering job, as returned by creation
// and status endpoints.
type Talk struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	ResultURL string          `json:"result_url,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
}

// ErrorDetail returns the provider-supplied error payload as a string,
// or a fixed fallback when the payload is empty.
func (t *Talk) ErrorDetail() string {
	if len(t.Error) == 0 {
		return "unknown provider error"
	}
	var s string
	if err := json.Unmarshal(t.Error, &s); err == nil {
		return s
	}
	return string(t.Error)
}
