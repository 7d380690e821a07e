package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

func TestPriorityScore(t *testing.T) {
	list := []string{"2160p", "1440p", "1080p", "720p", "576p", "480p"}

	t.Run("most preferred scores 100", func(t *testing.T) {
		assert.Equal(t, 100, domain.PriorityScore("2160p", list))
	})

	t.Run("last position stays positive", func(t *testing.T) {
		assert.Equal(t, 17, domain.PriorityScore("480p", list))
	})

	t.Run("monotone over positions", func(t *testing.T) {
		prev := 101
		for _, v := range list {
			score := domain.PriorityScore(v, list)
			assert.Less(t, score, prev)
			prev = score
		}
	})

	t.Run("absent value scores zero", func(t *testing.T) {
		assert.Equal(t, 0, domain.PriorityScore("8K", list))
	})

	t.Run("empty value scores zero", func(t *testing.T) {
		assert.Equal(t, 0, domain.PriorityScore("", list))
	})

	t.Run("empty list scores zero", func(t *testing.T) {
		assert.Equal(t, 0, domain.PriorityScore("2160p", nil))
	})
}

type QualityTestSuite struct {
	suite.Suite

	prefs *models.LibraryPreferences
}

func (suite *QualityTestSuite) SetupTest() {
	suite.prefs = models.DefaultLibraryPreferences("col-1")
}

func uhdRemux(id string) *models.MediaItem {
	return &models.MediaItem{
		ID:   id,
		Name: "The Matrix",
		Path: "/movies/The.Matrix.1999.2160p.REMUX.mkv",
		Streams: models.StreamDescriptor{
			VideoHeight:   2160,
			VideoCodec:    "hevc",
			VideoProfile:  "Dolby Vision Profile 8.1",
			VideoRange:    "HDR",
			VideoBitRate:  72_000_000,
			AudioCodec:    "truehd",
			AudioChannels: 8,
		},
	}
}

func fhdWebRip(id string) *models.MediaItem {
	return &models.MediaItem{
		ID:   id,
		Name: "The Matrix",
		Path: "/movies/The.Matrix.1999.1080p.WEBRip.mkv",
		Streams: models.StreamDescriptor{
			VideoHeight:   1080,
			VideoCodec:    "h264",
			VideoProfile:  "High",
			VideoRange:    "SDR",
			VideoBitRate:  8_000_000,
			AudioCodec:    "ac3",
			AudioChannels: 6,
		},
	}
}

func groupOf(itemIDs ...string) *models.DuplicateGroup {
	group := &models.DuplicateGroup{
		ID:           uuid.New(),
		CollectionID: "col-1",
	}
	for _, id := range itemIDs {
		group.Versions = append(group.Versions, models.VersionRecord{ItemID: id})
	}
	if len(itemIDs) > 0 {
		group.PrimaryVersionID = itemIDs[0]
	}
	return group
}

func (suite *QualityTestSuite) TestUHDOutranksFHD() {
	group := groupOf("fhd", "uhd")
	items := map[string]*models.MediaItem{
		"uhd": uhdRemux("uhd"),
		"fhd": fhdWebRip("fhd"),
	}

	domain.ScoreVersions(group, items, suite.prefs)

	require.Len(suite.T(), group.Versions, 2)
	assert.Equal(suite.T(), "uhd", group.Versions[0].ItemID)
	assert.Equal(suite.T(), 92, group.Versions[0].QualityScore)
	assert.Equal(suite.T(), 46, group.Versions[1].QualityScore)
	assert.Equal(suite.T(), "uhd", group.PrimaryVersionID)
}

func (suite *QualityTestSuite) TestLabelsFilledFromItems() {
	group := groupOf("uhd")
	domain.ScoreVersions(group, map[string]*models.MediaItem{"uhd": uhdRemux("uhd")}, suite.prefs)

	v := group.Versions[0]
	assert.Equal(suite.T(), "2160p", v.Resolution)
	assert.Equal(suite.T(), "Dolby Vision", v.DynamicRange)
	assert.Equal(suite.T(), "HEVC", v.Codec)
	assert.Equal(suite.T(), "TrueHD 7.1", v.AudioFormat)
	assert.Equal(suite.T(), "Remux", v.SourceType)
	assert.Equal(suite.T(), 72_000_000, v.BitRate)
}

func (suite *QualityTestSuite) TestRankingInvariantToInputOrder() {
	items := map[string]*models.MediaItem{
		"uhd": uhdRemux("uhd"),
		"fhd": fhdWebRip("fhd"),
	}

	forward := groupOf("uhd", "fhd")
	reversed := groupOf("fhd", "uhd")
	domain.ScoreVersions(forward, items, suite.prefs)
	domain.ScoreVersions(reversed, items, suite.prefs)

	assert.Equal(suite.T(), forward.Versions[0].ItemID, reversed.Versions[0].ItemID)
	assert.Equal(suite.T(), forward.Versions[0].QualityScore, reversed.Versions[0].QualityScore)
}

func (suite *QualityTestSuite) TestStableTieKeepsInputOrder() {
	group := groupOf("a", "b")
	items := map[string]*models.MediaItem{
		"a": fhdWebRip("a"),
		"b": fhdWebRip("b"),
	}

	domain.ScoreVersions(group, items, suite.prefs)

	assert.Equal(suite.T(), "a", group.Versions[0].ItemID)
	assert.Equal(suite.T(), "b", group.Versions[1].ItemID)
}

func (suite *QualityTestSuite) TestExplicitPrimarySurvivesScoring() {
	group := groupOf("uhd", "fhd")
	// Someone already chose the lower-quality version on purpose.
	group.PrimaryVersionID = "fhd"

	items := map[string]*models.MediaItem{
		"uhd": uhdRemux("uhd"),
		"fhd": fhdWebRip("fhd"),
	}
	domain.ScoreVersions(group, items, suite.prefs)

	assert.Equal(suite.T(), "uhd", group.Versions[0].ItemID)
	assert.Equal(suite.T(), "fhd", group.PrimaryVersionID)
}

func (suite *QualityTestSuite) TestUnresolvedItemScoresZero() {
	group := groupOf("known", "ghost")
	items := map[string]*models.MediaItem{"known": fhdWebRip("known")}

	domain.ScoreVersions(group, items, suite.prefs)

	assert.Equal(suite.T(), "known", group.Versions[0].ItemID)
	assert.Equal(suite.T(), 0, group.Versions[1].QualityScore)
}

func TestQualityTestSuite(t *testing.T) {
	suite.Run(t, new(QualityTestSuite))
}
