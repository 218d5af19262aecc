// Package objstore opens tool outputs and reference databases from local
// paths, gs:// buckets or s3:// buckets. Gzip input is detected by magic
// number and decompressed transparently.
package objstore

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/yungbote/amrdb/internal/platform/logger"
)

type Scheme string

const (
	SchemeLocal Scheme = "file"
	SchemeGCS   Scheme = "gs"
	SchemeS3    Scheme = "s3"
)

// Location is a parsed input URI.
type Location struct {
	Scheme Scheme
	Bucket string
	// Key is the object key for buckets and the filesystem path for local input.
	Key string
}

func (l Location) String() string {
	if l.Scheme == SchemeLocal {
		return l.Key
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// Parse accepts plain paths, file:// URLs, gs://bucket/key and s3://bucket/key.
func Parse(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("objstore: empty location")
	}
	if !strings.Contains(raw, "://") {
		return Location{Scheme: SchemeLocal, Key: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("objstore: parse %q: %w", raw, err)
	}
	switch Scheme(u.Scheme) {
	case SchemeLocal:
		return Location{Scheme: SchemeLocal, Key: u.Path}, nil
	case SchemeGCS, SchemeS3:
		if u.Host == "" {
			return Location{}, fmt.Errorf("objstore: %q has no bucket", raw)
		}
		return Location{Scheme: Scheme(u.Scheme), Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
	default:
		return Location{}, fmt.Errorf("objstore: unsupported scheme %q", u.Scheme)
	}
}

type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// Store opens and lists inputs. Cloud clients are created on first use, so a
// purely local run never needs credentials.
type Store struct {
	log   *logger.Logger
	s3cfg S3Config

	mu  sync.Mutex
	gcs *gcsBackend
	s3  *s3Backend
}

func New(log *logger.Logger, s3cfg S3Config) *Store {
	return &Store{log: log.With("service", "ObjectStore"), s3cfg: s3cfg}
}

type backend interface {
	open(ctx context.Context, loc Location) (io.ReadCloser, error)
	list(ctx context.Context, loc Location) ([]Location, error)
}

func (s *Store) backendFor(ctx context.Context, loc Location) (backend, error) {
	switch loc.Scheme {
	case SchemeLocal:
		return localBackend{}, nil
	case SchemeGCS:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gcs == nil {
			b, err := newGCSBackend(ctx)
			if err != nil {
				return nil, err
			}
			s.gcs = b
		}
		return s.gcs, nil
	case SchemeS3:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.s3 == nil {
			b, err := newS3Backend(ctx, s.s3cfg)
			if err != nil {
				return nil, err
			}
			s.s3 = b
		}
		return s.s3, nil
	}
	return nil, fmt.Errorf("objstore: unsupported scheme %q", loc.Scheme)
}

// Open returns a reader over the decompressed content of raw.
func (s *Store) Open(ctx context.Context, raw string) (io.ReadCloser, error) {
	loc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	b, err := s.backendFor(ctx, loc)
	if err != nil {
		return nil, err
	}
	rc, err := b.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("objstore: open %s: %w", loc, err)
	}
	s.log.Debug("opened input", "location", loc.String())
	return maybeGunzip(rc)
}

// List returns the entries directly under raw (a directory or key prefix),
// sorted by name.
func (s *Store) List(ctx context.Context, raw string) ([]Location, error) {
	loc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	b, err := s.backendFor(ctx, loc)
	if err != nil {
		return nil, err
	}
	out, err := b.list(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("objstore: list %s: %w", loc, err)
	}
	return out, nil
}

// Close releases cloud clients.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gcs != nil {
		err := s.gcs.client.Close()
		s.gcs = nil
		return err
	}
	return nil
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// maybeGunzip peeks at the gzip magic (1F 8B) so streamed objects need no
// seeking.
func maybeGunzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	sig, _ := br.Peek(2)
	if len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
}

// Base returns the final path element of a location.
func (l Location) Base() string {
	k := strings.TrimRight(l.Key, "/")
	if i := strings.LastIndex(k, "/"); i >= 0 {
		return k[i+1:]
	}
	return k
}
