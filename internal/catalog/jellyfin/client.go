package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/nautilusmedia/dedupe/pkg/errors"
	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/models"
	"github.com/nautilusmedia/dedupe/pkg/utils"
)

const (
	itemFields   = "Path,Genres,Tags,Studios,ProviderIds,Overview,MediaStreams,People"
	resolveTTL   = 5 * time.Minute
	defaultLimit = 15 * time.Second
)

// Client talks to a Jellyfin-compatible media server and exposes it through
// the Catalog interface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      interfaces.Cache
}

// NewClient creates a new catalog client. A zero timeout falls back to the
// default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultLimit
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: utils.NewInMemoryCache(),
	}
}

// item is the subset of the Jellyfin item DTO the detector reads.
type item struct {
	ID              string            `json:"Id"`
	Name            string            `json:"Name"`
	Type            string            `json:"Type"`
	ProductionYear  *int              `json:"ProductionYear"`
	ProviderIDs     map[string]string `json:"ProviderIds"`
	RunTimeTicks    *int64            `json:"RunTimeTicks"`
	Genres          []string          `json:"Genres"`
	Tags            []string          `json:"Tags"`
	CommunityRating *float64          `json:"CommunityRating"`
	PremiereDate    *time.Time        `json:"PremiereDate"`
	Studios         []studio          `json:"Studios"`
	Overview        string            `json:"Overview"`
	Path            string            `json:"Path"`
	MediaStreams    []mediaStream     `json:"MediaStreams"`
}

type studio struct {
	Name string `json:"Name"`
}

type mediaStream struct {
	Type       string `json:"Type"`
	Codec      string `json:"Codec"`
	Profile    string `json:"Profile"`
	VideoRange string `json:"VideoRange"`
	Width      int    `json:"Width"`
	Height     int    `json:"Height"`
	BitRate    int    `json:"BitRate"`
	Channels   int    `json:"Channels"`
}

type itemsResponse struct {
	Items []item `json:"Items"`
}

type person struct {
	Name string `json:"Name"`
}

type peopleItem struct {
	People []person `json:"People"`
}

// ListItems returns every movie and episode under a collection, recursively.
func (c *Client) ListItems(ctx context.Context, collectionID string) ([]*models.MediaItem, error) {
	query := url.Values{}
	query.Set("ParentId", collectionID)
	query.Set("Recursive", "true")
	query.Set("IncludeItemTypes", "Movie,Episode")
	query.Set("Fields", itemFields)

	var resp itemsResponse
	if err := c.get(ctx, "/Items", query, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrorTypeUnavailable,
			fmt.Sprintf("failed to list items for collection %s", collectionID), err)
	}

	items := make([]*models.MediaItem, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, resp.Items[i].toModel())
	}
	return items, nil
}

// ResolveItem looks up one item by id, with a short-lived cache in front of
// the server.
func (c *Client) ResolveItem(ctx context.Context, itemID string) (*models.MediaItem, error) {
	if cached, err := c.cache.Get(ctx, itemID); err == nil {
		if m, ok := cached.(*models.MediaItem); ok {
			return m, nil
		}
	}

	query := url.Values{}
	query.Set("Ids", itemID)
	query.Set("Fields", itemFields)

	var resp itemsResponse
	if err := c.get(ctx, "/Items", query, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrorTypeUnavailable,
			fmt.Sprintf("failed to resolve item %s", itemID), err)
	}
	if len(resp.Items) == 0 {
		return nil, pkgerrors.NotFound(fmt.Sprintf("item %s not found", itemID))
	}

	m := resp.Items[0].toModel()
	_ = c.cache.Set(ctx, itemID, m, resolveTTL)
	return m, nil
}

// GetPeople returns the names of people attached to an item.
func (c *Client) GetPeople(ctx context.Context, itemID string) ([]string, error) {
	query := url.Values{}
	query.Set("Ids", itemID)
	query.Set("Fields", "People")

	var resp struct {
		Items []peopleItem `json:"Items"`
	}
	if err := c.get(ctx, "/Items", query, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrorTypeUnavailable,
			fmt.Sprintf("failed to fetch people for item %s", itemID), err)
	}
	if len(resp.Items) == 0 {
		return nil, pkgerrors.NotFound(fmt.Sprintf("item %s not found", itemID))
	}

	people := make([]string, 0, len(resp.Items[0].People))
	for _, p := range resp.Items[0].People {
		if p.Name != "" {
			people = append(people, p.Name)
		}
	}
	return people, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf(`MediaBrowser Token="%s"`, c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// toModel converts the wire DTO into the detector's snapshot model. Runtime
// ticks are 100ns units; only the first video and audio streams are kept.
func (it *item) toModel() *models.MediaItem {
	m := &models.MediaItem{
		ID:              it.ID,
		Name:            it.Name,
		ProductionYear:  it.ProductionYear,
		ProviderIDs:     it.ProviderIDs,
		Genres:          it.Genres,
		Tags:            it.Tags,
		CommunityRating: it.CommunityRating,
		PremiereDate:    it.PremiereDate,
		Overview:        it.Overview,
		Path:            it.Path,
	}

	if it.RunTimeTicks != nil {
		minutes := int(*it.RunTimeTicks / (10_000_000 * 60))
		m.RuntimeMinutes = &minutes
	}

	for _, s := range it.Studios {
		if s.Name != "" {
			m.Studios = append(m.Studios, s.Name)
		}
	}

	for _, s := range it.MediaStreams {
		switch s.Type {
		case "Video":
			if m.Streams.VideoCodec == "" {
				m.Streams.VideoWidth = s.Width
				m.Streams.VideoHeight = s.Height
				m.Streams.VideoCodec = s.Codec
				m.Streams.VideoProfile = s.Profile
				m.Streams.VideoRange = s.VideoRange
				m.Streams.VideoBitRate = s.BitRate
			}
		case "Audio":
			if m.Streams.AudioCodec == "" {
				m.Streams.AudioCodec = s.Codec
				m.Streams.AudioChannels = s.Channels
			}
		}
	}

	return m
}
