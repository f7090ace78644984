package download

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"podcatch/internal/models"
)

// Hosts whose enclosure URLs carry no usable filename. Their episodes are
// named after the slugified title instead.
const (
	titleSuffix = "media.mp3"
	podtracHost = "podtrac.com"
	libsynHost  = "libsyn.com"
	nprMarker   = "anon.npr-mp3"
)

// Basename derives the local filename for an episode's enclosure.
//
// Three URL families are special-cased: title-slug hosts (podtrac, libsyn,
// and anything ending in media.mp3), NPR's anon.npr-mp3 paths (segments after
// the marker joined with underscores), and everything else (last path segment
// of the parsed URL).
func Basename(episode *models.Episode) (string, error) {
	switch {
	case strings.HasSuffix(episode.URL, titleSuffix),
		strings.Contains(episode.URL, podtracHost),
		strings.Contains(episode.URL, libsynHost):
		slug := slugTitle(episode.Title)
		if slug == "" {
			return "", fmt.Errorf("%w: title %q slugs to nothing", ErrNoBasename, episode.Title)
		}
		return slug + ".mp3", nil

	case strings.Contains(episode.URL, nprMarker):
		rest := episode.URL[strings.Index(episode.URL, nprMarker)+len(nprMarker):]
		rest = strings.Trim(rest, "/")
		if rest == "" {
			return "", fmt.Errorf("%w: nothing after %s marker in %s", ErrNoBasename, nprMarker, episode.URL)
		}
		return strings.ReplaceAll(rest, "/", "_"), nil

	default:
		parsed, err := url.Parse(episode.URL)
		if err != nil {
			return "", fmt.Errorf("parsing enclosure url %s: %w", episode.URL, err)
		}
		base := path.Base(parsed.Path)
		if base == "." || base == "/" {
			return "", fmt.Errorf("%w: no path segments in %s", ErrNoBasename, episode.URL)
		}
		return base, nil
	}
}

// slugTitle lowercases the title, keeps [a-z0-9], maps spaces to underscores
// and drops everything else.
func slugTitle(title string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
