package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mvp2008/jbusy/pkg/ranker"
	"github.com/mvp2008/jbusy/pkg/threadstat"
)

func testEntry() Entry {
	return Entry{
		SelectedThread: ranker.SelectedThread{
			Sample: threadstat.Sample{
				PID:        1200,
				TID:        1234,
				User:       "app",
				Command:    "java",
				CPUPercent: 90.5,
				CPUTime:    90 * time.Second,
			},
			Rank: 1,
		},
		Nid:   "0x4d2",
		Stack: "\"worker\" nid=0x4d2 runnable\n   at com.example.Loop.run\n",
	}
}

func TestTableFormat(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable, &buf)

	if err := f.Begin(RoundInfo{Round: 1, When: time.Now(), Sampled: 12}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := f.Emit(testEntry()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	failed := testEntry()
	failed.Rank = 2
	failed.Stack = ""
	failed.Error = "jstack failed for pid 1200: exit status 1"
	if err := f.Emit(failed); err != nil {
		t.Fatalf("Emit failed entry: %v", err)
	}
	if err := f.End(Summary{Reported: 2, Failed: 1}); err != nil {
		t.Fatalf("End: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Busy(90.5%)",
		"thread(1234/0x4d2)",
		"process(1200)",
		"user(app)",
		"at com.example.Loop.run",
		"jstack failed for pid 1200",
		"1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)

	if err := f.Begin(RoundInfo{Round: 2, Sampled: 4}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := f.Emit(testEntry()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := f.End(Summary{Reported: 1}); err != nil {
		t.Fatalf("End: %v", err)
	}

	var got struct {
		Round   int     `json:"round"`
		Entries []Entry `json:"entries"`
		Summary Summary `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if got.Round != 2 || len(got.Entries) != 1 || got.Summary.Reported != 1 {
		t.Fatalf("decoded = %+v", got)
	}
	e := got.Entries[0]
	if e.Nid != "0x4d2" || e.PID != 1200 || e.Rank != 1 {
		t.Fatalf("entry = %+v", e)
	}
}
