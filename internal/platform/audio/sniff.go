// Package audio classifies voice-sample byte buffers by container format.
// Recordings arrive from browser MediaRecorder (WebM/Ogg) and iOS capture
// hardware (M4A/MP4/AAC), so the format of a stored blob is only knowable
// from its byte signature.
package audio

import "bytes"

// Format is an audio container tag. Its string value doubles as the file
// extension used in export archives.
type Format string

const (
	FormatWebM Format = "webm"
	FormatOgg  Format = "ogg"
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatM4A  Format = "m4a"
	FormatMP4  Format = "mp4"
	FormatAAC  Format = "aac"
)

// Ext returns the file extension for the format.
func (f Format) Ext() string { return string(f) }

// MIMEType returns the MIME type served for a sample of this format.
func (f Format) MIMEType() string {
	switch f {
	case FormatOgg:
		return "audio/ogg"
	case FormatMP3:
		return "audio/mpeg"
	case FormatWAV:
		return "audio/wav"
	case FormatM4A:
		return "audio/mp4"
	case FormatMP4:
		return "audio/mp4"
	case FormatAAC:
		return "audio/aac"
	default:
		return "audio/webm"
	}
}

var matroskaMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// Detect classifies a raw audio buffer by inspecting its leading bytes.
// Buffers that are empty, shorter than 12 bytes, or match no known
// signature are reported as WebM, the common case for the recording
// hardware used in the study. Rules are checked in order; first match wins.
func Detect(data []byte) Format {
	if len(data) < 12 {
		return FormatWebM
	}

	header := data[:12]
	extended := header
	if len(data) >= 20 {
		extended = data[:20]
	}

	switch {
	case bytes.Contains(bytes.ToLower(header), []byte("matroska")) || bytes.HasPrefix(data, matroskaMagic):
		return FormatWebM
	case bytes.HasPrefix(header, []byte("OggS")):
		return FormatOgg
	case bytes.HasPrefix(header, []byte("ID3")) || bytes.HasPrefix(header, []byte{0xff, 0xfb}):
		return FormatMP3
	case bytes.HasPrefix(header, []byte("RIFF")) && bytes.Contains(header, []byte("WAVE")):
		return FormatWAV
	case bytes.Contains(header, []byte("ftyp")) || bytes.HasPrefix(header, []byte{0x00, 0x00, 0x00}):
		// MP4 family: distinguish M4A / generic MP4 from the brand bytes.
		if bytes.Contains(extended, []byte("M4A ")) || bytes.Contains(extended, []byte("mp42")) {
			return FormatM4A
		}
		if bytes.Contains(bytes.ToLower(extended), []byte("mp4")) {
			return FormatMP4
		}
		return FormatM4A
	case bytes.HasPrefix(header, []byte{0xff, 0xf1}) || bytes.HasPrefix(header, []byte{0xff, 0xf9}):
		return FormatAAC
	}

	return FormatWebM
}
