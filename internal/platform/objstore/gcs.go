package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsBackend struct {
	client *storage.Client
}

// newGCSBackend uses application default credentials, or the emulator when
// STORAGE_EMULATOR_HOST is set.
func newGCSBackend(ctx context.Context) (*gcsBackend, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")) != "" {
		opts = append(opts, option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objstore: gcs client: %w", err)
	}
	return &gcsBackend{client: client}, nil
}

func (b *gcsBackend) open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	return b.client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
}

func (b *gcsBackend) list(ctx context.Context, loc Location) ([]Location, error) {
	prefix := loc.Key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	it := b.client.Bucket(loc.Bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	var out []Location
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Name == "" {
			continue // synthetic "directory" entry
		}
		out = append(out, Location{Scheme: SchemeGCS, Bucket: loc.Bucket, Key: attrs.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
