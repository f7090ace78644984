package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/go-pkgz/lgr"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"podcatch/pkg/config"
	"podcatch/pkg/hash"
)

// Tag metadata rides along with each object as user metadata under these
// keys. List responses return them behind the canonical amz prefix.
const (
	metaTitle       = "Title"
	metaAlbum       = "Album"
	metaArtist      = "Artist"
	metaAlbumArtist = "Album-Artist"
	metaTrackNumber = "Track-Number"
	metaDiscNumber  = "Disc-Number"
	metaTotalDiscs  = "Total-Discs"
	metaDuration    = "Duration"

	amzMetaPrefix = "X-Amz-Meta-"
)

// S3Store keeps the catalog in an S3-compatible bucket. The object key is
// the catalog id, a content fingerprint, so re-uploading the same bytes is
// idempotent.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
}

var _ Store = (*S3Store)(nil)

// NewS3Store dials the configured catalog endpoint.
func NewS3Store(cfg config.CatalogConfig) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating catalog client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// Upload ships the file and returns its catalog id. A zero meta.ID is
// filled in from the file's content hash.
func (s *S3Store) Upload(ctx context.Context, path string, meta TrackMetadata) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	id := meta.ID
	if id == "" {
		sum, err := hash.MD5File(path)
		if err != nil {
			return "", fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		id = sum
	}

	info, err := s.client.FPutObject(ctx, s.bucket, id, path, minio.PutObjectOptions{
		ContentType:  "audio/mpeg",
		UserMetadata: encodeMeta(meta),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", path, err)
	}
	log.Printf("[INFO] uploaded %s as %s (%d bytes)", path, id, info.Size)
	return id, nil
}

// ListUploaded walks the bucket and decodes every object back into track
// metadata. A missing bucket is an empty catalog, not an error.
func (s *S3Store) ListUploaded(ctx context.Context) ([]TrackMetadata, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return nil, nil
	}

	var tracks []TrackMetadata
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing bucket %s: %w", s.bucket, obj.Err)
		}
		tracks = append(tracks, decodeMeta(obj))
	}
	return tracks, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

func encodeMeta(meta TrackMetadata) map[string]string {
	m := map[string]string{
		metaTitle:  meta.Title,
		metaAlbum:  meta.Album,
		metaArtist: meta.Artist,
	}
	if meta.AlbumArtist != "" {
		m[metaAlbumArtist] = meta.AlbumArtist
	}
	if meta.TrackNumber > 0 {
		m[metaTrackNumber] = strconv.Itoa(meta.TrackNumber)
	}
	if meta.DiscNumber > 0 {
		m[metaDiscNumber] = strconv.Itoa(meta.DiscNumber)
	}
	if meta.TotalDiscs > 0 {
		m[metaTotalDiscs] = strconv.Itoa(meta.TotalDiscs)
	}
	if meta.Duration > 0 {
		m[metaDuration] = strconv.Itoa(meta.Duration)
	}
	return m
}

func decodeMeta(obj minio.ObjectInfo) TrackMetadata {
	return TrackMetadata{
		ID:          obj.Key,
		Size:        obj.Size,
		Title:       metaValue(obj.UserMetadata, metaTitle),
		Album:       metaValue(obj.UserMetadata, metaAlbum),
		Artist:      metaValue(obj.UserMetadata, metaArtist),
		AlbumArtist: metaValue(obj.UserMetadata, metaAlbumArtist),
		TrackNumber: metaInt(obj.UserMetadata, metaTrackNumber),
		DiscNumber:  metaInt(obj.UserMetadata, metaDiscNumber),
		TotalDiscs:  metaInt(obj.UserMetadata, metaTotalDiscs),
		Duration:    metaInt(obj.UserMetadata, metaDuration),
	}
}

// metaValue reads a user metadata key whether it arrived bare (stat) or
// behind the canonical amz header prefix (list).
func metaValue(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m[http.CanonicalHeaderKey(amzMetaPrefix+key)]
}

func metaInt(m map[string]string, key string) int {
	n, _ := strconv.Atoi(metaValue(m, key))
	return n
}
