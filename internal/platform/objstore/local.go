package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
)

type localBackend struct{}

func (localBackend) open(_ context.Context, loc Location) (io.ReadCloser, error) {
	if loc.Key == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(loc.Key)
}

func (localBackend) list(_ context.Context, loc Location) ([]Location, error) {
	entries, err := os.ReadDir(loc.Key)
	if err != nil {
		return nil, err
	}
	out := make([]Location, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, Location{Scheme: SchemeLocal, Key: filepath.Join(loc.Key, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
