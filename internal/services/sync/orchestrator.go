package sync

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"podcatch/internal/models"
	"podcatch/internal/services/episodes"
	"podcatch/internal/services/feed"
)

const defaultConcurrency = 5

// Orchestrator drives one sync cycle: reconcile every feed against the
// store, then fan out per episode to download, refresh and persist.
//
// The cycle runs in two phases. Phase one snapshots and reconciles every
// podcast before any episode work starts, so sequence numbers are assigned
// from a stable global counter. Phase two walks the podcasts in order and
// processes their episodes concurrently; a failing episode never disturbs
// its siblings and is reported instead.
type Orchestrator struct {
	podcasts    PodcastLister
	episodes    EpisodeStore
	feeds       FeedSource
	downloads   Downloader
	reconciler  *feed.Reconciler
	concurrency int
}

// Option is a functional option for configuring the orchestrator
type Option func(*Orchestrator)

// WithConcurrency caps how many podcasts reconcile and how many episodes
// download at the same time.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(podcasts PodcastLister, episodes EpisodeStore, feeds FeedSource, downloads Downloader, reconciler *feed.Reconciler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		podcasts:    podcasts,
		episodes:    episodes,
		feeds:       feeds,
		downloads:   downloads,
		reconciler:  reconciler,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// plan captures everything phase one learns about one podcast. Sequence
// numbers are fully assigned by the time a plan exists, so plans can be
// processed in any order.
type plan struct {
	podcast  models.Podcast
	parsed   int
	existing map[string]models.Episode
	result   feed.Result
	err      error
}

// Run executes one full cycle over every tracked podcast. The returned
// error covers only the initial podcast listing; everything downstream is
// reported per podcast in the RunReport.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	pods, err := o.podcasts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing podcasts: %w", err)
	}

	plans := make([]plan, len(pods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, pod := range pods {
		i, pod := i, pod
		g.Go(func() error {
			plans[i] = o.planPodcast(gctx, pod)
			return nil // failures live in the plan
		})
	}
	_ = g.Wait()

	report := &RunReport{Podcasts: make([]PodcastReport, 0, len(plans))}
	for i := range plans {
		report.Podcasts = append(report.Podcasts, o.processPlan(ctx, &plans[i]))
	}
	return report, nil
}

// planPodcast snapshots the stored episodes, fetches and parses the feed
// and reconciles the two. The global max sequence is read before the fetch
// so the counter is settled before any episode work for this podcast.
func (o *Orchestrator) planPodcast(ctx context.Context, podcast models.Podcast) plan {
	p := plan{podcast: podcast}

	stored, err := o.episodes.ListByPodcast(ctx, podcast.ID)
	if err != nil {
		p.err = err
		return p
	}
	maxSeq, err := o.episodes.MaxSequence(ctx)
	if err != nil {
		p.err = err
		return p
	}
	body, err := o.feeds.Get(ctx, podcast.FeedURL)
	if err != nil {
		p.err = fmt.Errorf("fetching feed %s: %w", podcast.FeedURL, err)
		return p
	}
	candidates, err := feed.Parse(body)
	if err != nil {
		p.err = fmt.Errorf("parsing feed %s: %w", podcast.FeedURL, err)
		return p
	}

	p.parsed = len(candidates)
	p.existing = feed.SnapshotByTitle(stored)
	p.result = o.reconciler.Reconcile(&podcast, candidates, p.existing, maxSeq+1)
	return p
}

// episodeTask is one unit of phase-two work.
type episodeTask struct {
	episode models.Episode
	update  bool
}

// processPlan runs phase two for one podcast and folds the outcome into a
// report. Episode tasks run concurrently and record their errors by slot,
// never aborting each other.
func (o *Orchestrator) processPlan(ctx context.Context, p *plan) PodcastReport {
	rep := PodcastReport{Podcast: p.podcast, Err: p.err}
	if p.err != nil {
		log.Printf("[ERROR] podcast %s: %v", p.podcast.Name, p.err)
		return rep
	}

	rep.Parsed = p.parsed
	rep.Existing = len(p.existing)
	rep.New = len(p.result.New)
	rep.Updated = len(p.result.Updates)
	log.Printf("[INFO] podcast %s: %d parsed, %d existing, %d new, %d updates",
		p.podcast.Name, rep.Parsed, rep.Existing, rep.New, rep.Updated)

	tasks := make([]episodeTask, 0, rep.New+rep.Updated)
	for _, ep := range p.result.New {
		tasks = append(tasks, episodeTask{episode: ep})
	}
	for _, ep := range p.result.Updates {
		tasks = append(tasks, episodeTask{episode: ep, update: true})
	}

	errs := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if task.update {
				errs[i] = o.processUpdate(gctx, &p.podcast, task.episode)
			} else {
				errs[i] = o.processNew(gctx, &p.podcast, task.episode)
			}
			return nil // siblings keep running
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			log.Printf("[ERROR] podcast %s: episode %q: %v", p.podcast.Name, tasks[i].episode.Title, err)
			rep.Failed++
		}
	}
	return rep
}

// processNew lands a reconciled new episode. When the enclosure URL is
// already tracked the stored row gets the fresh title and nothing is
// downloaded; otherwise the enclosure is fetched, fingerprinted and
// inserted. An episode that comes back without a fingerprint is logged and
// dropped rather than inserted half-known.
func (o *Orchestrator) processNew(ctx context.Context, podcast *models.Podcast, episode models.Episode) error {
	if podcast.Directory == "" {
		log.Printf("[DEBUG] podcast %s has no directory, skipping %q", podcast.Name, episode.Title)
		return nil
	}

	stored, err := o.episodes.GetByURL(ctx, podcast.ID, episode.URL)
	switch {
	case err == nil:
		log.Printf("[INFO] new title %q for %s", episode.Title, episode.URL)
		stored.Title = episode.Title
		return o.episodes.UpdateBySequence(ctx, stored)
	case !episodes.IsNotFound(err):
		return err
	}

	downloaded, err := o.downloads.Download(ctx, &episode, podcast.Directory)
	if err != nil {
		return err
	}
	if !downloaded.Finalized() {
		log.Printf("[WARN] no fingerprint for %s, skipping insert", downloaded.URL)
		return nil
	}
	return o.episodes.Insert(ctx, downloaded)
}

// processUpdate settles an update-candidate. Episodes that already carry a
// complete fingerprint are left alone. For the rest the content is brought
// back to a hashed state, from the local file when one exists, and the row
// is rewritten in place.
func (o *Orchestrator) processUpdate(ctx context.Context, podcast *models.Podcast, episode models.Episode) error {
	if episode.Finalized() {
		return nil
	}
	if podcast.Directory == "" {
		log.Printf("[DEBUG] podcast %s has no directory, skipping %q", podcast.Name, episode.Title)
		return nil
	}

	refreshed, err := o.downloads.Refresh(ctx, &episode, podcast.Directory)
	if err != nil {
		return err
	}
	return o.episodes.UpdateBySequence(ctx, refreshed)
}
