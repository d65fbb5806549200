package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// FFmpegThumbnailer extracts a scaled frame from a video using ffmpeg.
// Any failure (ffmpeg missing, undecodable video) is reported to the caller,
// which substitutes a placeholder.
type FFmpegThumbnailer struct{}

func (FFmpegThumbnailer) ExtractThumbnail(video []byte) ([]byte, error) {
	tmpDir := os.TempDir()
	id := uuid.New().String()
	videoPath := filepath.Join(tmpDir, fmt.Sprintf("%s_thumb_src.mp4", id))
	thumbPath := filepath.Join(tmpDir, fmt.Sprintf("%s_thumb.jpg", id))

	if err := os.WriteFile(videoPath, video, 0o644); err != nil {
		return nil, fmt.Errorf("write temp video: %w", err)
	}
	defer os.Remove(videoPath)
	defer os.Remove(thumbPath)

	err := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": config.ThumbnailOffset}).
		Output(thumbPath, ffmpeg.KwArgs{
			"vframes": 1,
			"vf":      fmt.Sprintf("scale=%d:%d", config.ThumbnailWidth, config.ThumbnailHeight),
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}

	thumb, err := os.ReadFile(thumbPath)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	if len(thumb) == 0 {
		return nil, fmt.Errorf("ffmpeg produced empty thumbnail")
	}
	return thumb, nil
}
