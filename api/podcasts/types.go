package podcasts

import (
	"podcatch/internal/models"
	"podcatch/internal/services/sync"
)

// PodcastsResponse lists tracked podcasts.
type PodcastsResponse struct {
	Podcasts []models.Podcast `json:"podcasts"`
	Count    int              `json:"count"`
}

// PodcastResponse returns one podcast.
type PodcastResponse struct {
	Podcast *models.Podcast `json:"podcast"`
}

// EpisodesResponse lists the episodes of one podcast.
type EpisodesResponse struct {
	Podcast  *models.Podcast  `json:"podcast"`
	Episodes []models.Episode `json:"episodes"`
	Count    int              `json:"count"`
}

// AddPodcastRequest is the POST body for tracking a new feed.
type AddPodcastRequest struct {
	Name      string `json:"name" binding:"required"`
	FeedURL   string `json:"feed_url" binding:"required"`
	Directory string `json:"directory"`
}

// SyncResponse summarizes one triggered run.
type SyncResponse struct {
	Status   string          `json:"status"` // ok | failed
	Podcasts []PodcastResult `json:"podcasts"`
}

// PodcastResult is one podcast's counts within a sync response.
type PodcastResult struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Parsed   int    `json:"parsed"`
	Existing int    `json:"existing"`
	New      int    `json:"new"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}

// NewSyncResponse flattens a run report into its wire shape.
func NewSyncResponse(report *sync.RunReport) SyncResponse {
	resp := SyncResponse{
		Status:   "ok",
		Podcasts: make([]PodcastResult, 0, len(report.Podcasts)),
	}
	if report.HasFailures() {
		resp.Status = "failed"
	}

	for _, p := range report.Podcasts {
		result := PodcastResult{
			ID:       p.Podcast.ID,
			Name:     p.Podcast.Name,
			Parsed:   p.Parsed,
			Existing: p.Existing,
			New:      p.New,
			Updated:  p.Updated,
			Failed:   p.Failed,
		}
		if p.Err != nil {
			result.Error = p.Err.Error()
		}
		resp.Podcasts = append(resp.Podcasts, result)
	}
	return resp
}
