package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.IncRun("resfinder", "succeeded")
	m.AddResults("resfinder", 3)
	m.AddResults("resfinder", 0)
	m.AddVariants("resfinder", 1)
	m.AddOrientationMismatches("resfinder", 2)
	m.AddCollisionFallbacks("resfinder", 1)
	m.IncUnknownAccession("amrfinder")
	m.ObserveOperation("reconcile.run", "success", 20*time.Millisecond)

	if got := testutil.ToFloat64(m.resultsWritten.WithLabelValues("resfinder")); got != 3 {
		t.Fatalf("results_written: want=3 got=%v", got)
	}
	if got := testutil.ToFloat64(m.orientationMismatches.WithLabelValues("resfinder")); got != 2 {
		t.Fatalf("orientation_mismatches: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.unknownAccessions.WithLabelValues("amrfinder")); got != 1 {
		t.Fatalf("unknown_accessions: want=1 got=%v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.AddCatalogEntries("resfinder", "inserted", 5)
	path := filepath.Join(t.TempDir(), "amrdb.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `amrdb_catalog_entries_total{action="inserted",kind="resfinder"} 5`) {
		t.Fatalf("textfile missing catalog counter:\n%s", data)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncRun("x", "y")
	m.AddResults("x", 1)
	m.ObserveOperation("op", "success", time.Second)
	if err := m.WriteTextfile("/nonexistent/dir/file.prom"); err != nil {
		t.Fatalf("nil WriteTextfile: %v", err)
	}
}
