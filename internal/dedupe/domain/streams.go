package domain

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// StreamInfo holds the normalized categorical attributes derived from an
// item's raw stream data. Missing stream data leaves the corresponding label
// empty; extraction never fails a scan.
type StreamInfo struct {
	Resolution    string
	DynamicRange  string
	Codec         string
	AudioFormat   string
	AudioChannels string
	SourceType    string
}

// ExtractStreamInfo reduces an item's stream descriptor and file path into
// normalized labels.
func ExtractStreamInfo(item *models.MediaItem) StreamInfo {
	s := item.Streams
	channels := channelLabel(s.AudioChannels)
	return StreamInfo{
		Resolution:    resolutionLabel(s.VideoHeight),
		DynamicRange:  dynamicRangeLabel(s.VideoProfile, s.VideoRange),
		Codec:         codecLabel(s.VideoCodec),
		AudioFormat:   audioFormatLabel(s.AudioCodec, channels),
		AudioChannels: channels,
		SourceType:    sourceTypeLabel(item.Path),
	}
}

// resolutionLabel buckets the reported video height.
func resolutionLabel(height int) string {
	switch {
	case height >= 2160:
		return "2160p"
	case height >= 1440:
		return "1440p"
	case height >= 1080:
		return "1080p"
	case height >= 720:
		return "720p"
	case height >= 576:
		return "576p"
	case height >= 480:
		return "480p"
	default:
		return ""
	}
}

// dynamicRangeLabel classifies the stream's dynamic range from the codec
// profile text, falling back to the range classifier.
func dynamicRangeLabel(profile, videoRange string) string {
	p := strings.ToUpper(profile)
	switch {
	case strings.Contains(p, "DOLBY VISION"):
		return "Dolby Vision"
	case strings.Contains(p, "HDR10+"), strings.Contains(p, "HDR10PLUS"):
		return "HDR10+"
	}

	r := strings.ToUpper(videoRange)
	switch {
	case strings.Contains(r, "HDR"):
		return "HDR10"
	case strings.Contains(r, "HLG"):
		return "HLG"
	case profile == "" && videoRange == "":
		return ""
	default:
		return "SDR"
	}
}

// codecLabel normalizes a raw codec name to a codec family. Unrecognized
// names pass through uppercased.
func codecLabel(codec string) string {
	if codec == "" {
		return ""
	}
	c := strings.ToUpper(codec)
	switch {
	case strings.Contains(c, "HEVC"), strings.Contains(c, "H265"), strings.Contains(c, "H.265"):
		return "HEVC"
	case strings.Contains(c, "H264"), strings.Contains(c, "H.264"), strings.Contains(c, "AVC"):
		return "H.264"
	case strings.Contains(c, "AV1"):
		return "AV1"
	case strings.Contains(c, "VP9"):
		return "VP9"
	case strings.Contains(c, "MPEG"):
		return "MPEG-4"
	default:
		return c
	}
}

// audioFormatLabel derives a display format from the audio codec name and the
// channel label.
func audioFormatLabel(codec, channels string) string {
	if codec == "" {
		return ""
	}
	c := strings.ToUpper(codec)
	switch {
	case strings.Contains(c, "ATMOS"):
		return "Dolby Atmos"
	case strings.Contains(c, "DTS:X"), strings.Contains(c, "DTSX"):
		return "DTS:X"
	case strings.Contains(c, "TRUEHD"):
		if channels == "7.1" {
			return "TrueHD 7.1"
		}
		return "TrueHD 5.1"
	case strings.Contains(c, "DTS-HD"), strings.Contains(c, "DTSHD"):
		if channels == "7.1" {
			return "DTS-HD MA 7.1"
		}
		return "DTS-HD MA 5.1"
	case strings.Contains(c, "AC3"), strings.Contains(c, "DD"):
		return "AC3 5.1"
	case strings.Contains(c, "AAC"):
		return "AAC Stereo"
	default:
		return strings.TrimSpace(c + " " + channels)
	}
}

// channelLabel maps an audio channel count to its display label.
func channelLabel(channels int) string {
	switch channels {
	case 8:
		return "7.1"
	case 6:
		return "5.1"
	case 2:
		return "Stereo"
	case 1:
		return "Mono"
	case 0:
		return ""
	default:
		return strconv.Itoa(channels)
	}
}

// sourceTypeLabel infers the file provenance from filename tokens, most
// specific first.
func sourceTypeLabel(path string) string {
	name := strings.ToUpper(filepath.Base(path))
	switch {
	case strings.Contains(name, "REMUX"):
		return "Remux"
	case strings.Contains(name, "BLURAY"), strings.Contains(name, "BLU-RAY"):
		return "BluRay"
	case strings.Contains(name, "WEB-DL"), strings.Contains(name, "WEBDL"):
		return "WEB-DL"
	case strings.Contains(name, "WEBRIP"):
		return "WEBRip"
	case strings.Contains(name, "HDTV"):
		return "HDTV"
	case strings.Contains(name, "DVDRIP"), strings.Contains(name, "DVD-RIP"):
		return "DVDRip"
	default:
		return "Unknown"
	}
}
