package metrics

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []call
	histograms []call
	flushes    int
}

type call struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

// install swaps the global backend for the duration of a test. Tests using
// it must not run in parallel.
func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordStep(t *testing.T) {
	fb := install(t)

	RecordStep("statsbomb", "fetch", nil, 2*time.Second)
	RecordStep("statsbomb", "load", errors.New("boom"), 1500*time.Millisecond)

	want := []call{
		{"etl_step_total", 1, Labels{"job": "statsbomb", "step": "fetch", "status": "success"}},
		{"etl_step_total", 1, Labels{"job": "statsbomb", "step": "load", "status": "failure"}},
	}
	if !reflect.DeepEqual(fb.counters, want) {
		t.Fatalf("counters = %+v; want %+v", fb.counters, want)
	}
	wantHist := []call{
		{"etl_step_duration_seconds", 2, want[0].labels},
		{"etl_step_duration_seconds", 1.5, want[1].labels},
	}
	if !reflect.DeepEqual(fb.histograms, wantHist) {
		t.Fatalf("histograms = %+v; want %+v", fb.histograms, wantHist)
	}
}

func TestRecordDocumentsAndTableRows(t *testing.T) {
	fb := install(t)

	RecordDocuments("statsbomb", "match", 380)
	RecordDocuments("statsbomb", "competition", 0) // ignored
	RecordTableRows("statsbomb", "TeamManagerMatch", 760)
	RecordTableRows("statsbomb", "Referee", -1) // ignored

	want := []call{
		{"etl_documents_total", 380, Labels{"job": "statsbomb", "kind": "match"}},
		{"etl_table_rows_total", 760, Labels{"job": "statsbomb", "table": "TeamManagerMatch"}},
	}
	if !reflect.DeepEqual(fb.counters, want) {
		t.Fatalf("counters = %+v; want %+v", fb.counters, want)
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)
	if backend != fb {
		t.Fatal("SetBackend did not replace global backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushes != 1 {
		t.Fatalf("flushes = %d; want 1", fb.flushes)
	}

	SetBackend(nil)
	if backend != fb {
		t.Fatal("SetBackend(nil) changed the backend")
	}
}

func TestNopBackendIsDefault(t *testing.T) {
	if _, ok := backend.(nopBackend); !ok {
		t.Fatalf("default backend = %T; want nopBackend", backend)
	}
	RecordStep("j", "s", nil, time.Millisecond)
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush returned error: %v", err)
	}
}
