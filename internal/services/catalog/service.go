package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"podcatch/internal/models"
	"podcatch/pkg/audio"
)

const defaultConcurrency = 5

// Report totals one reconciliation pass over the music directory.
type Report struct {
	Mirrored int // remote entries newly mirrored into the store
	Files    int // files scanned that no track claims yet
	Tagged   int
	Matched  int // tagged files resolved to a mirrored track
	Relinked int // tracks whose filename was filled in
	Pending  int // tagged files the catalog lacks
	Uploaded int
	Untagged int
}

// Service reconciles a local music directory against the remote catalog:
// remote metadata is mirrored into the store, local files are matched to
// mirrored tracks by tag key or title, stale filename links are repaired
// and files the catalog lacks are uploaded.
type Service struct {
	store       Store
	tracks      TrackRepository
	concurrency int
}

// Option is a functional option for configuring the service
type Option func(*Service)

// WithConcurrency caps how many files have their tags read at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a catalog service around a remote store and the local
// track mirror.
func NewService(store Store, tracks TrackRepository, opts ...Option) *Service {
	s := &Service{store: store, tracks: tracks, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileInfo is what the scanner learned about one local file.
type fileInfo struct {
	path   string
	tagged bool
	meta   TrackMetadata
	key    TrackKey
}

// Run executes one pass: mirror, scan, match, relink, and optionally
// upload. With upload false the unmatched files are only counted.
func (s *Service) Run(ctx context.Context, dir string, upload bool) (*Report, error) {
	if dir == "" {
		return nil, ErrNoDirectory
	}
	report := &Report{}

	if err := s.mirror(ctx, report); err != nil {
		return nil, err
	}

	files, err := s.scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	report.Files = len(files)

	infos := make([]fileInfo, len(files))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			infos[i] = readTag(path)
			return nil
		})
	}
	_ = g.Wait()

	var uploads []fileInfo
	for _, info := range infos {
		if !info.tagged {
			report.Untagged++
			// Some uploads were named after their title outright.
			if err := s.relinkByTitle(ctx, filepath.Base(info.path), info.path, report); err != nil {
				return nil, err
			}
			continue
		}
		report.Tagged++
		matched, err := s.matchTagged(ctx, info, report)
		if err != nil {
			return nil, err
		}
		if !matched {
			uploads = append(uploads, info)
		}
	}

	report.Pending = len(uploads)
	if upload {
		for _, info := range uploads {
			if err := s.uploadFile(ctx, info, report); err != nil {
				return nil, err
			}
		}
	} else if len(uploads) > 0 {
		log.Printf("[INFO] %d files missing from the catalog, uploads disabled", len(uploads))
	}

	log.Printf("[INFO] catalog: %d mirrored, %d files, %d tagged, %d matched, %d pending, %d uploaded, %d untagged",
		report.Mirrored, report.Files, report.Tagged, report.Matched, report.Pending, report.Uploaded, report.Untagged)
	return report, nil
}

// mirror inserts remote entries the store has never seen. Known tracks are
// left untouched so their filename links survive.
func (s *Service) mirror(ctx context.Context, report *Report) error {
	remote, err := s.store.ListUploaded(ctx)
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}
	for _, meta := range remote {
		_, err := s.tracks.GetByCatalogID(ctx, meta.ID)
		switch {
		case err == nil:
			continue
		case !IsNotFound(err):
			return err
		}
		if err := s.tracks.Insert(ctx, trackFromMeta(meta)); err != nil {
			return err
		}
		report.Mirrored++
	}
	return nil
}

// scan walks dir and returns the files no mirrored track claims.
func (s *Service) scan(ctx context.Context, dir string) ([]string, error) {
	known, err := s.tracks.ListFilenames(ctx)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := known[path]; ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

// matchTagged resolves a tagged file against the mirror, first by full key
// and then by title alone. It reports whether the file is accounted for;
// unaccounted files are upload candidates.
func (s *Service) matchTagged(ctx context.Context, info fileInfo, report *Report) (bool, error) {
	track, err := s.tracks.GetByKey(ctx, info.key)
	switch {
	case err == nil:
		report.Matched++
		if track.Filename == "" {
			if err := s.tracks.SetFilename(ctx, track.CatalogID, info.path); err != nil {
				return false, err
			}
			report.Relinked++
		}
		return true, nil
	case !IsNotFound(err):
		return false, err
	}

	rows, err := s.tracks.ListByTitle(ctx, info.key.Title)
	if err != nil {
		return false, err
	}
	switch {
	case len(rows) == 1:
		report.Matched++
		if rows[0].Filename == "" {
			if err := s.tracks.SetFilename(ctx, rows[0].CatalogID, info.path); err != nil {
				return false, err
			}
			report.Relinked++
		}
		return true, nil
	case len(rows) > 1:
		// Ambiguous titles are neither matched nor uploaded.
		log.Printf("[DEBUG] title %q is ambiguous across %d tracks", info.key.Title, len(rows))
		return true, nil
	}
	return false, nil
}

// relinkByTitle repairs the filename of a track whose title uniquely
// matches, used for untagged files named after their title.
func (s *Service) relinkByTitle(ctx context.Context, title, path string, report *Report) error {
	rows, err := s.tracks.ListByTitle(ctx, title)
	if err != nil {
		return err
	}
	if len(rows) == 1 && rows[0].Filename == "" {
		if err := s.tracks.SetFilename(ctx, rows[0].CatalogID, path); err != nil {
			return err
		}
		report.Relinked++
	}
	return nil
}

// uploadFile ships one file to the catalog and mirrors it immediately so
// the next pass skips it by filename.
func (s *Service) uploadFile(ctx context.Context, info fileInfo, report *Report) error {
	meta := info.meta
	if stat, err := os.Stat(info.path); err == nil {
		meta.Size = stat.Size()
	}
	if seconds, err := audio.Duration(info.path); err != nil {
		log.Printf("[DEBUG] no duration for %s: %v", info.path, err)
	} else {
		meta.Duration = seconds
	}

	id, err := s.store.Upload(ctx, info.path, meta)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", info.path, err)
	}
	meta.ID = id

	track := trackFromMeta(meta)
	track.Filename = info.path
	if err := s.tracks.Insert(ctx, track); err != nil {
		return err
	}
	report.Uploaded++
	return nil
}

// readTag inspects one file. A file whose tag lacks any of title, artist
// or album counts as untagged; the key fields are what the catalog matches
// on.
func readTag(path string) fileInfo {
	info := fileInfo{path: path}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		log.Printf("[DEBUG] no readable tag in %s: %v", path, err)
		return info
	}
	defer tag.Close()

	title := strings.TrimSpace(tag.Title())
	artist := strings.TrimSpace(tag.Artist())
	album := strings.TrimSpace(tag.Album())
	if title == "" || artist == "" || album == "" {
		return info
	}

	track, _ := splitNumbering(tag.GetTextFrame("TRCK").Text)
	disc, totalDiscs := splitNumbering(tag.GetTextFrame("TPOS").Text)

	info.tagged = true
	info.meta = TrackMetadata{
		Title:       title,
		Album:       album,
		Artist:      artist,
		AlbumArtist: strings.TrimSpace(tag.GetTextFrame("TPE2").Text),
		TrackNumber: track,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}
	info.key = TrackKey{Artist: artist, Album: album, Title: title, TrackNumber: track}
	return info
}

// splitNumbering parses "3" or "3/12" frame text into position and total.
func splitNumbering(text string) (int, int) {
	parts := strings.SplitN(text, "/", 2)
	n, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	total := 0
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return n, total
}

func trackFromMeta(meta TrackMetadata) *models.CatalogTrack {
	return &models.CatalogTrack{
		CatalogID:   meta.ID,
		Title:       meta.Title,
		Album:       meta.Album,
		Artist:      meta.Artist,
		AlbumArtist: meta.AlbumArtist,
		TrackNumber: meta.TrackNumber,
		DiscNumber:  meta.DiscNumber,
		TotalDiscs:  meta.TotalDiscs,
		Size:        meta.Size,
		Duration:    meta.Duration,
	}
}
