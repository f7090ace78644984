package models

import (
	"gorm.io/gorm"
)

// EpisodeStatus represents where an episode is in its download lifecycle
type EpisodeStatus string

const (
	StatusReady      EpisodeStatus = "ready"
	StatusDownloaded EpisodeStatus = "downloaded"
	StatusError      EpisodeStatus = "error"
	StatusSkipped    EpisodeStatus = "skipped"
)

// HashLength is the exact length of a finalized content hash in hex characters
const HashLength = 32

// Podcast represents a tracked feed
type Podcast struct {
	gorm.Model
	Name      string    `json:"name" gorm:"not null"`
	FeedURL   string    `json:"feed_url" gorm:"uniqueIndex;not null"`
	Directory string    `json:"directory"`
	Episodes  []Episode `json:"episodes,omitempty" gorm:"foreignKey:PodcastID"`
}

// Episode represents one entry of a podcast feed.
//
// Sequence is assigned once when the title is first seen and never reassigned;
// together with PodcastID it identifies the row for updates. GUID holds the
// content hash once the enclosure has been downloaded and fingerprinted.
type Episode struct {
	gorm.Model
	PodcastID uint          `json:"podcast_id" gorm:"not null;uniqueIndex:idx_podcast_sequence"`
	Sequence  int64         `json:"sequence" gorm:"not null;uniqueIndex:idx_podcast_sequence"`
	Title     string        `json:"title" gorm:"not null;index"`
	URL       string        `json:"url" gorm:"not null;index"`
	EncType   string        `json:"enc_type"`
	Status    EpisodeStatus `json:"status" gorm:"not null;default:ready"`
	GUID      string        `json:"guid" gorm:"index"`
	Duration  *int          `json:"duration"` // seconds, probed from the downloaded file
}

// Finalized reports whether the episode carries a complete content hash.
// Only a GUID of exactly 32 hex characters counts; anything else means the
// content still needs to be fetched or re-fingerprinted.
func (e *Episode) Finalized() bool {
	if len(e.GUID) != HashLength {
		return false
	}
	for _, c := range e.GUID {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// CatalogTrack mirrors the metadata of one track uploaded to the remote
// music catalog.
type CatalogTrack struct {
	gorm.Model
	CatalogID   string `json:"catalog_id" gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"index"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	AlbumArtist string `json:"album_artist"`
	TrackNumber int    `json:"track_number"`
	DiscNumber  int    `json:"disc_number"`
	TotalDiscs  int    `json:"total_discs"`
	Size        int64  `json:"size"`
	Duration    int    `json:"duration"` // seconds
	Filename    string `json:"filename" gorm:"index"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&Podcast{}, &Episode{}, &CatalogTrack{}}
}
