package pipeline

import (
	"encoding/binary"
	"fmt"
)

// wavDuration computes the duration of a WAV buffer in whole seconds by
// walking the RIFF chunks for the fmt and data headers.
func wavDuration(data []byte) (int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a RIFF/WAVE buffer")
	}

	var (
		sampleRate    uint32
		channels      uint16
		bitsPerSample uint16
		dataSize      uint32
	)

	off := 12
	for off+8 <= len(data) {
		chunkID := string(data[off : off+4])
		chunkSize := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return 0, fmt.Errorf("truncated fmt chunk")
			}
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			dataSize = chunkSize
		}

		// Chunks are word-aligned
		off = body + int(chunkSize)
		if chunkSize%2 == 1 {
			off++
		}
	}

	if sampleRate == 0 || channels == 0 || bitsPerSample < 8 {
		return 0, fmt.Errorf("missing or invalid fmt chunk")
	}
	if dataSize == 0 {
		return 0, fmt.Errorf("missing data chunk")
	}

	bytesPerFrame := uint32(channels) * uint32(bitsPerSample/8)
	frames := dataSize / bytesPerFrame
	return int(frames / sampleRate), nil
}
