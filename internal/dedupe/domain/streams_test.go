package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

func TestExtractStreamInfo(t *testing.T) {
	item := &models.MediaItem{
		ID:   "1",
		Name: "The Matrix",
		Path: "/movies/The.Matrix.1999.2160p.BluRay.REMUX.mkv",
		Streams: models.StreamDescriptor{
			VideoWidth:    3840,
			VideoHeight:   2160,
			VideoCodec:    "hevc",
			VideoProfile:  "Dolby Vision Profile 8.1",
			VideoRange:    "HDR",
			AudioCodec:    "truehd",
			AudioChannels: 8,
		},
	}

	info := domain.ExtractStreamInfo(item)

	assert.Equal(t, "2160p", info.Resolution)
	assert.Equal(t, "Dolby Vision", info.DynamicRange)
	assert.Equal(t, "HEVC", info.Codec)
	assert.Equal(t, "TrueHD 7.1", info.AudioFormat)
	assert.Equal(t, "7.1", info.AudioChannels)
	assert.Equal(t, "Remux", info.SourceType)
}

func TestExtractStreamInfoMissingData(t *testing.T) {
	info := domain.ExtractStreamInfo(&models.MediaItem{ID: "1", Name: "Bare"})

	assert.Empty(t, info.Resolution)
	assert.Empty(t, info.DynamicRange)
	assert.Empty(t, info.Codec)
	assert.Empty(t, info.AudioFormat)
	assert.Empty(t, info.AudioChannels)
	assert.Equal(t, "Unknown", info.SourceType)
}

func TestResolutionBuckets(t *testing.T) {
	tests := []struct {
		height   int
		expected string
	}{
		{2160, "2160p"},
		{2304, "2160p"}, // taller-than-UHD scope frames
		{1440, "1440p"},
		{1080, "1080p"},
		{804, "720p"}, // cropped 1080p scope encode
		{720, "720p"},
		{576, "576p"},
		{480, "480p"},
		{360, ""},
		{0, ""},
	}

	for _, tt := range tests {
		item := &models.MediaItem{Streams: models.StreamDescriptor{VideoHeight: tt.height}}
		assert.Equal(t, tt.expected, domain.ExtractStreamInfo(item).Resolution,
			"height %d", tt.height)
	}
}

func TestDynamicRangeClassification(t *testing.T) {
	tests := []struct {
		name     string
		profile  string
		vrange   string
		expected string
	}{
		{"dolby vision from profile", "Dolby Vision Profile 5", "HDR", "Dolby Vision"},
		{"hdr10 plus from profile", "HDR10+ Profile B", "HDR", "HDR10+"},
		{"hdr10 from range", "Main 10", "HDR", "HDR10"},
		{"hlg from range", "Main 10", "HLG", "HLG"},
		{"sdr fallback", "High", "SDR", "SDR"},
		{"nothing known", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &models.MediaItem{Streams: models.StreamDescriptor{
				VideoProfile: tt.profile,
				VideoRange:   tt.vrange,
			}}
			assert.Equal(t, tt.expected, domain.ExtractStreamInfo(item).DynamicRange)
		})
	}
}

func TestCodecFamilies(t *testing.T) {
	tests := []struct {
		codec    string
		expected string
	}{
		{"hevc", "HEVC"},
		{"h265", "HEVC"},
		{"h264", "H.264"},
		{"AVC", "H.264"},
		{"av1", "AV1"},
		{"vp9", "VP9"},
		{"mpeg4", "MPEG-4"},
		{"vc1", "VC1"}, // unknown codecs pass through uppercased
		{"", ""},
	}

	for _, tt := range tests {
		item := &models.MediaItem{Streams: models.StreamDescriptor{VideoCodec: tt.codec}}
		assert.Equal(t, tt.expected, domain.ExtractStreamInfo(item).Codec, "codec %q", tt.codec)
	}
}

func TestAudioFormats(t *testing.T) {
	tests := []struct {
		codec    string
		channels int
		expected string
	}{
		{"truehd atmos", 8, "Dolby Atmos"},
		{"dts:x", 8, "DTS:X"},
		{"truehd", 8, "TrueHD 7.1"},
		{"truehd", 6, "TrueHD 5.1"},
		{"dts-hd ma", 8, "DTS-HD MA 7.1"},
		{"dts-hd ma", 6, "DTS-HD MA 5.1"},
		{"ac3", 6, "AC3 5.1"},
		{"aac", 2, "AAC Stereo"},
		{"flac", 2, "FLAC Stereo"},
		{"", 6, ""},
	}

	for _, tt := range tests {
		item := &models.MediaItem{Streams: models.StreamDescriptor{
			AudioCodec:    tt.codec,
			AudioChannels: tt.channels,
		}}
		assert.Equal(t, tt.expected, domain.ExtractStreamInfo(item).AudioFormat,
			"codec %q channels %d", tt.codec, tt.channels)
	}
}

func TestSourceTypeTokens(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/m/The.Matrix.1999.BluRay.REMUX.mkv", "Remux"}, // remux wins over bluray
		{"/m/The.Matrix.1999.BluRay.x264.mkv", "BluRay"},
		{"/m/The.Matrix.1999.WEB-DL.mkv", "WEB-DL"},
		{"/m/The.Matrix.1999.WEBRip.mkv", "WEBRip"},
		{"/m/The.Matrix.1999.HDTV.mkv", "HDTV"},
		{"/m/The.Matrix.1999.DVDRip.avi", "DVDRip"},
		{"/m/The Matrix (1999).mkv", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		item := &models.MediaItem{Path: tt.path}
		assert.Equal(t, tt.expected, domain.ExtractStreamInfo(item).SourceType, "path %q", tt.path)
	}
}
