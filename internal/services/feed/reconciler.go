package feed

import (
	"podcatch/internal/models"
)

// unknownTitle stands in for candidates whose slot never saw title text.
const unknownTitle = "Unknown"

// Result partitions one reconciliation pass: episodes to insert and stored
// episodes that need another look.
type Result struct {
	New     []models.Episode
	Updates []models.Episode
}

// Reconciler matches feed candidates against the persisted episode set of a
// podcast. Matching is keyed on the title alone; two candidates sharing a
// title are the same episode as far as the matcher is concerned.
type Reconciler struct {
	suppressed map[string]struct{}
}

// NewReconciler builds a Reconciler. suppressedTitles lists titles that some
// feed keeps re-emitting under an already-used slot; a matched candidate
// carrying one of them is ignored outright.
func NewReconciler(suppressedTitles []string) *Reconciler {
	suppressed := make(map[string]struct{}, len(suppressedTitles))
	for _, title := range suppressedTitles {
		suppressed[title] = struct{}{}
	}
	return &Reconciler{suppressed: suppressed}
}

// SnapshotByTitle indexes persisted episodes by title for matching. When two
// rows share a title the first one wins and the rest are invisible to the
// matcher.
func SnapshotByTitle(episodes []models.Episode) map[string]models.Episode {
	set := make(map[string]models.Episode, len(episodes))
	for _, ep := range episodes {
		if _, ok := set[ep.Title]; !ok {
			set[ep.Title] = ep
		}
	}
	return set
}

// Reconcile walks the candidates in document order, consuming one sequence
// number per candidate whether or not anything is emitted. A candidate whose
// title is not in the existing set becomes a new episode. A matched candidate
// emits an update when the stored row is mistitled or carries an unfinalized
// GUID, and nothing otherwise. nextSequence is the first free sequence number
// and must be computed once, before any concurrent work for the podcast
// starts.
func (r *Reconciler) Reconcile(podcast *models.Podcast, candidates []Candidate, existing map[string]models.Episode, nextSequence int64) Result {
	var result Result

	seq := nextSequence
	for _, c := range candidates {
		title := c.Title
		if title == "" {
			title = unknownTitle
		}
		prospect := models.Episode{
			PodcastID: podcast.ID,
			Sequence:  seq,
			Title:     title,
			URL:       c.URL,
			EncType:   c.EncType,
			Status:    models.StatusReady,
		}
		seq++ // consumed per candidate, not per emitted episode

		stored, ok := existing[title]
		if !ok {
			result.New = append(result.New, prospect)
			continue
		}
		if c.Title == "" {
			// Matched purely on the fallback title; nothing to compare.
			continue
		}
		if _, drop := r.suppressed[c.Title]; drop {
			continue
		}
		if stored.Title != c.Title {
			retitled := stored
			retitled.Title = c.Title
			result.Updates = append(result.Updates, retitled)
			continue
		}
		if stored.GUID != "" && !stored.Finalized() {
			result.Updates = append(result.Updates, stored)
		}
	}

	return result
}
