package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEpisodeFinalized(t *testing.T) {
	tests := []struct {
		name      string
		guid      string
		finalized bool
	}{
		{
			name:      "valid lowercase hash",
			guid:      "0123456789abcdef0123456789abcdef",
			finalized: true,
		},
		{
			name:      "valid uppercase hash",
			guid:      "0123456789ABCDEF0123456789ABCDEF",
			finalized: true,
		},
		{
			name:      "empty guid",
			guid:      "",
			finalized: false,
		},
		{
			name:      "too short",
			guid:      strings.Repeat("a", 31),
			finalized: false,
		},
		{
			name:      "too long",
			guid:      strings.Repeat("a", 33),
			finalized: false,
		},
		{
			name:      "right length but not hex",
			guid:      strings.Repeat("a", 31) + "g",
			finalized: false,
		},
		{
			name:      "right length with whitespace",
			guid:      strings.Repeat("a", 31) + " ",
			finalized: false,
		},
		{
			name:      "feed-provided guid",
			guid:      "https://example.com/episode-123",
			finalized: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			episode := Episode{GUID: tt.guid}
			assert.Equal(t, tt.finalized, episode.Finalized())
		})
	}
}

func TestEpisodeModel(t *testing.T) {
	duration := 3600

	episode := Episode{
		Model:     gorm.Model{},
		PodcastID: 1,
		Sequence:  42,
		Title:     "Test Episode",
		URL:       "https://example.com/episode.mp3",
		EncType:   "audio/mpeg",
		Status:    StatusReady,
		Duration:  &duration,
	}

	assert.Equal(t, uint(1), episode.PodcastID)
	assert.Equal(t, int64(42), episode.Sequence)
	assert.Equal(t, "Test Episode", episode.Title)
	assert.Equal(t, "https://example.com/episode.mp3", episode.URL)
	assert.Equal(t, "audio/mpeg", episode.EncType)
	assert.Equal(t, StatusReady, episode.Status)
	assert.Equal(t, &duration, episode.Duration)
	assert.False(t, episode.Finalized())
}

func TestPodcastModel(t *testing.T) {
	podcast := Podcast{
		Model:     gorm.Model{},
		Name:      "Test Podcast",
		FeedURL:   "https://example.com/feed.xml",
		Directory: "/srv/podcasts/test",
	}

	assert.Equal(t, "Test Podcast", podcast.Name)
	assert.Equal(t, "https://example.com/feed.xml", podcast.FeedURL)
	assert.Equal(t, "/srv/podcasts/test", podcast.Directory)
}

func TestCatalogTrackModel(t *testing.T) {
	track := CatalogTrack{
		Model:       gorm.Model{},
		CatalogID:   "b0df3cf3-6e7c-4b4c-9f59-4f8f3f4d3a21",
		Title:       "Test Track",
		Album:       "Test Album",
		Artist:      "Test Artist",
		AlbumArtist: "Test Artist",
		TrackNumber: 5,
		DiscNumber:  1,
		TotalDiscs:  1,
		Size:        7340032,
		Filename:    "test_artist/test_album/05_test_track.mp3",
	}

	assert.Equal(t, "b0df3cf3-6e7c-4b4c-9f59-4f8f3f4d3a21", track.CatalogID)
	assert.Equal(t, "Test Track", track.Title)
	assert.Equal(t, 5, track.TrackNumber)
	assert.Equal(t, "test_artist/test_album/05_test_track.mp3", track.Filename)
}
