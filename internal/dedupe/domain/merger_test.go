package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/pkg/logger"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

type MergerTestSuite struct {
	suite.Suite

	merger *domain.Merger
}

func (suite *MergerTestSuite) SetupTest() {
	suite.merger = domain.NewMerger(logger.NewNoop())
}

func (suite *MergerTestSuite) twoVersions() (*models.DuplicateGroup, map[string]*models.MediaItem) {
	group := &models.DuplicateGroup{
		ID:           uuid.New(),
		CollectionID: "col-1",
		Versions: []models.VersionRecord{
			{ItemID: "a"},
			{ItemID: "b"},
		},
		PrimaryVersionID: "a",
	}

	items := map[string]*models.MediaItem{
		"a": {
			ID:              "a",
			Name:            "The Matrix",
			Genres:          []string{"Action", "Sci-Fi"},
			Tags:            []string{"cyberpunk"},
			People:          []string{"Keanu Reeves"},
			Studios:         []string{"Warner Bros."},
			CommunityRating: floatPtr(8.0),
			PremiereDate:    timePtr(time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)),
			ProviderIDs:     map[string]string{"Imdb": "tt0133093"},
			Overview:        "A hacker discovers reality is a simulation.",
		},
		"b": {
			ID:              "b",
			Name:            "The Matrix (Remastered)",
			Genres:          []string{"action", "Thriller"},
			Tags:            []string{"Cyberpunk", "dystopia"},
			People:          []string{"keanu reeves", "Carrie-Anne Moss"},
			Studios:         []string{"Village Roadshow"},
			CommunityRating: floatPtr(9.0),
			PremiereDate:    timePtr(time.Date(1999, 6, 11, 0, 0, 0, 0, time.UTC)),
			ProviderIDs:     map[string]string{"imdb": "tt9999999", "Tmdb": "603"},
			Overview:        "A HACKER discovers reality is a simulation.",
		},
	}
	return group, items
}

func (suite *MergerTestSuite) TestLongestTitleWins() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.Equal(suite.T(), "The Matrix (Remastered)", group.Merged.Title)
	assert.Contains(suite.T(), group.Version("b").ContributedFields, "title")
	assert.NotContains(suite.T(), group.Version("a").ContributedFields, "title")
}

func (suite *MergerTestSuite) TestCaseInsensitiveUnions() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	// First-seen casing is preserved; later casings of the same value are not
	// added again.
	assert.Equal(suite.T(), []string{"Action", "Sci-Fi", "Thriller"}, group.Merged.Genres)
	assert.Equal(suite.T(), []string{"cyberpunk", "dystopia"}, group.Merged.Tags)
	assert.Equal(suite.T(), []string{"Keanu Reeves", "Carrie-Anne Moss"}, group.Merged.People)
	assert.Equal(suite.T(), []string{"Warner Bros.", "Village Roadshow"}, group.Merged.Studios)
}

func (suite *MergerTestSuite) TestRatingIsMeanOfPresentRatings() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.InDelta(suite.T(), 8.5, group.Merged.AverageRating, 0.001)
}

func (suite *MergerTestSuite) TestMissingRatingExcludedFromMean() {
	group, items := suite.twoVersions()
	items["b"].CommunityRating = nil

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.InDelta(suite.T(), 8.0, group.Merged.AverageRating, 0.001)
	assert.NotContains(suite.T(), group.Version("b").ContributedFields, "rating")
}

func (suite *MergerTestSuite) TestEarliestReleaseDateWins() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	require.NotNil(suite.T(), group.Merged.ReleaseDate)
	assert.Equal(suite.T(), time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC), *group.Merged.ReleaseDate)
	assert.Contains(suite.T(), group.Version("a").ContributedFields, "release_date")
}

func (suite *MergerTestSuite) TestFirstSeenProviderIDWins() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	// Both items carry an IMDb id under different key casings; the first
	// seen value is kept.
	assert.Equal(suite.T(), "tt0133093", group.Merged.ProviderIDs["Imdb"])
	assert.NotContains(suite.T(), group.Merged.ProviderIDs, "imdb")
	assert.Equal(suite.T(), "603", group.Merged.ProviderIDs["Tmdb"])
}

func (suite *MergerTestSuite) TestOverviewsDeduplicatedCaseInsensitively() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.Equal(suite.T(),
		[]string{"A hacker discovers reality is a simulation."},
		group.Merged.Descriptions)
}

func (suite *MergerTestSuite) TestMergeIsIdempotent() {
	group, items := suite.twoVersions()

	require.NoError(suite.T(), suite.merger.Merge(group, items))
	first := group.Merged
	firstContribA := append([]string(nil), group.Version("a").ContributedFields...)

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.Equal(suite.T(), first, group.Merged)
	assert.Equal(suite.T(), firstContribA, group.Version("a").ContributedFields)
}

func (suite *MergerTestSuite) TestUnresolvableMemberSkipped() {
	group, items := suite.twoVersions()
	delete(items, "b")

	require.NoError(suite.T(), suite.merger.Merge(group, items))

	assert.Equal(suite.T(), "The Matrix", group.Merged.Title)
	assert.Equal(suite.T(), []string{"Action", "Sci-Fi"}, group.Merged.Genres)
}

func (suite *MergerTestSuite) TestAllUnresolvableLeavesMetadataUntouched() {
	group, _ := suite.twoVersions()
	group.Merged = models.MergedMetadata{Title: "previous run"}

	err := suite.merger.Merge(group, map[string]*models.MediaItem{})

	assert.ErrorIs(suite.T(), err, domain.ErrNoResolvableVersions)
	assert.Equal(suite.T(), "previous run", group.Merged.Title)
}

func TestMergerTestSuite(t *testing.T) {
	suite.Run(t, new(MergerTestSuite))
}
