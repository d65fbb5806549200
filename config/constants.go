package config

import "time"

// Talk Provider Constants
const (
	// PollInterval is the wait time between talk status polls
	PollInterval = 2 * time.Second

	// MaxPollAttempts caps the polling loop (~3 minutes at PollInterval)
	MaxPollAttempts = 90

	// ProviderHTTPTimeout bounds a single HTTP call to the talk provider,
	// generous because result downloads can be large
	ProviderHTTPTimeout = 300 * time.Second

	// DefaultPresenterImageURL is used when a request supplies no presenter image
	DefaultPresenterImageURL = "https://create-images-results.d-id.com/default-presenter-image.jpg"
)

// Speech Synthesis Constants
const (
	// TTSHTTPTimeout bounds a single synthesis call
	TTSHTTPTimeout = 60 * time.Second

	// DefaultDurationSeconds is substituted when the synthesized audio
	// header cannot be read
	DefaultDurationSeconds = 60
)

// Thumbnail Constants
const (
	// ThumbnailWidth is the extracted thumbnail width
	ThumbnailWidth = 640

	// ThumbnailHeight is the extracted thumbnail height
	ThumbnailHeight = 360

	// ThumbnailOffset is the timestamp of the extracted frame
	ThumbnailOffset = "00:00:01"

	// PlaceholderThumbnailURL is substituted when thumbnail extraction fails
	PlaceholderThumbnailURL = "https://via.placeholder.com/640x360/007AFF/FFFFFF?text=Motivational+Clip"
)

// Storage Key Templates
const (
	// AudioKeyTemplate is the object key for a clip's synthesized audio
	AudioKeyTemplate = "clips/%s/audio.wav"

	// VideoKeyTemplate is the object key for a clip's finished video
	VideoKeyTemplate = "clips/%s/video.mp4"

	// ThumbnailKeyTemplate is the object key for a clip's thumbnail
	ThumbnailKeyTemplate = "clips/%s/thumbnail.jpg"
)

// Outcome Store Constants
const (
	// OutcomeTTL is how long worker outcomes stay readable after completion
	OutcomeTTL = 24 * time.Hour
)
