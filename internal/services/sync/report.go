package sync

import "podcatch/internal/models"

// PodcastReport is the outcome of one podcast's cycle. When Err is set the
// feed never reconciled and the counts stay zero.
type PodcastReport struct {
	Podcast  models.Podcast
	Parsed   int // candidate slots in the feed document
	Existing int // distinct stored titles before the pass
	New      int // planned inserts
	Updated  int // planned update-candidates
	Failed   int // per-episode tasks that errored
	Err      error
}

// RunReport aggregates one full cycle across all podcasts.
type RunReport struct {
	Podcasts []PodcastReport
}

// FailedPodcasts counts podcasts whose feed could not be reconciled at all.
func (r *RunReport) FailedPodcasts() int {
	n := 0
	for _, p := range r.Podcasts {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// FailedTasks counts per-episode tasks that errored across all podcasts.
func (r *RunReport) FailedTasks() int {
	n := 0
	for _, p := range r.Podcasts {
		n += p.Failed
	}
	return n
}

// HasFailures reports whether anything at all went wrong during the run.
func (r *RunReport) HasFailures() bool {
	return r.FailedPodcasts() > 0 || r.FailedTasks() > 0
}
