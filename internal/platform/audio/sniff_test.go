package audio

import (
	"bytes"
	"testing"
)

func pad(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

func TestDetect_ShortBuffersDefaultToWebM(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("OggS"),
		bytes.Repeat([]byte{0xff}, 11),
	}
	for _, c := range cases {
		if got := Detect(c); got != FormatWebM {
			t.Errorf("Detect(%v) = %s, want webm", c, got)
		}
	}
}

func TestDetect_Signatures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"matroska magic", pad(matroskaMagic, 16), FormatWebM},
		{"matroska text", pad([]byte("xxMatroskaxx"), 16), FormatWebM},
		{"ogg", pad([]byte("OggS"), 16), FormatOgg},
		{"mp3 id3", pad([]byte("ID3"), 16), FormatMP3},
		{"mp3 frame sync", pad([]byte{0xff, 0xfb}, 16), FormatMP3},
		{"wav", pad([]byte("RIFF\x00\x00\x00\x00WAVE"), 16), FormatWAV},
		{"riff without wave", pad([]byte("RIFF"), 16), FormatWebM},
		{"aac adts f1", pad([]byte{0xff, 0xf1}, 16), FormatAAC},
		{"aac adts f9", pad([]byte{0xff, 0xf9}, 16), FormatAAC},
		{"unknown", pad([]byte("abcdefghijkl"), 16), FormatWebM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetect_MP4Family(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"m4a brand", pad([]byte("\x00\x00\x00\x18ftypM4A "), 24), FormatM4A},
		{"mp42 brand", pad([]byte("\x00\x00\x00\x18ftypmp42"), 24), FormatM4A},
		{"mp4 brand", pad([]byte("\x00\x00\x00\x18ftypisomMP4x"), 24), FormatMP4},
		{"ftyp unknown brand", pad([]byte("\x00\x00\x00\x18ftypXXXX"), 24), FormatM4A},
		{"leading zeros, no brand", pad([]byte{0x00, 0x00, 0x00, 0x20}, 24), FormatM4A},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetect_IsPure(t *testing.T) {
	data := pad([]byte("OggS"), 16)
	before := append([]byte(nil), data...)
	Detect(data)
	if !bytes.Equal(data, before) {
		t.Error("Detect mutated its input")
	}
}

func TestFormat_MIMEType(t *testing.T) {
	if FormatWebM.MIMEType() != "audio/webm" {
		t.Errorf("unexpected mime: %s", FormatWebM.MIMEType())
	}
	if FormatMP3.MIMEType() != "audio/mpeg" {
		t.Errorf("unexpected mime: %s", FormatMP3.MIMEType())
	}
	if FormatWAV.Ext() != "wav" {
		t.Errorf("unexpected ext: %s", FormatWAV.Ext())
	}
}
