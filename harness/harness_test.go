package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/splatgo/errors"
	"github.com/pontaoski/splatgo/splat"
)

func TestExpectedOutcome(t *testing.T) {
	tests := map[string]Outcome{
		"x_badlex.splat":        Lex,
		"x_badparse.splat":      Parse,
		"badsemantics.splat":    Semantic,
		"2-badexecution.splat":  Execution,
		"a_goodexecution.splat": Success,
	}
	for name, want := range tests {
		got, err := ExpectedOutcome(name)
		if err != nil || got != want {
			t.Errorf("ExpectedOutcome(%s) = %s, %v", name, got, err)
		}
	}

	_, err := ExpectedOutcome("plain.splat")
	if err == nil || !strings.Contains(err.Error(), "bad test filename") {
		t.Fatalf("err = %v", err)
	}
}

func TestConformance(t *testing.T) {
	paths, err := Discover("testdata")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no cases found")
	}

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			res, err := RunCase(path, splat.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !res.Passed {
				t.Fatalf("%s: %v\noutput: %q\n%s", res.Detail, res.Err, res.Output, repr.String(res))
			}
		})
	}
}

func TestDiscoverSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_goodexecution.splat", "a_badlex.splat", "notes.txt", "c_badparse.splat"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.splat"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"a_badlex.splat", "b_goodexecution.splat", "c_badparse.splat"}
	if repr.String(names) != repr.String(want) {
		t.Fatalf("got %s", repr.String(names))
	}
}

func writeCase(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCaseFailures(t *testing.T) {
	dir := t.TempDir()

	missing := writeCase(t, dir, "missing_goodexecution.splat", "program begin print 1 ; end ;")
	res, err := RunCase(missing, splat.Options{})
	if err != nil || res.Passed || !strings.Contains(res.Detail, "not found") {
		t.Fatalf("missing .out: %s, %v", repr.String(res), err)
	}

	wrong := writeCase(t, dir, "wrong_goodexecution.splat", "program begin print 1 ; end ;")
	writeCase(t, dir, "wrong_goodexecution.out", "2")
	res, _ = RunCase(wrong, splat.Options{})
	if res.Passed || res.Detail != "failed (output does not match expected results)" {
		t.Fatalf("wrong output: %s", repr.String(res))
	}

	early := writeCase(t, dir, "early_badexecution.splat", "program begin y := 1 ; end ;")
	res, _ = RunCase(early, splat.Options{})
	if res.Passed || res.Actual != Semantic || res.FalseThrow() != errors.PhaseSemantic {
		t.Fatalf("false throw: %s", repr.String(res))
	}

	clean := writeCase(t, dir, "clean_badlex.splat", "program begin end ;")
	res, _ = RunCase(clean, splat.Options{})
	if res.Passed || res.Actual != Success || res.FalseThrow() != errors.PhaseNone {
		t.Fatalf("no fault: %s", repr.String(res))
	}

	if _, err := RunCase(writeCase(t, dir, "plain.splat", ""), splat.Options{}); err == nil {
		t.Fatal("expected a bad filename error")
	}
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "a_goodexecution.splat", "program begin print \"hi\" ; end ;")
	writeCase(t, dir, "a_goodexecution.out", "hi")
	writeCase(t, dir, "b_badlex.splat", "program begin print # ; end ;")
	writeCase(t, dir, "c_badparse.splat", "program begin y := 1 ; end ;")

	var out bytes.Buffer
	report, err := Run(dir, Options{Verbose: true}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if report.Passed() != 2 || len(report.Results) != 3 {
		t.Fatalf("passed %d of %d", report.Passed(), len(report.Results))
	}
	if p, total := report.Tally(Parse); p != 0 || total != 1 {
		t.Fatalf("parse tally = %d / %d", p, total)
	}
	if n := report.FalseThrows(errors.PhaseSemantic); n != 1 {
		t.Fatalf("semantic false throws = %d", n)
	}

	text := out.String()
	for _, want := range []string{
		"Number of tests found: 3",
		"Test Case 1: a_goodexecution.splat...passed (output matches expected results)",
		"Test Case 2: b_badlex.splat...passed (proper fault raised during phase 1)",
		"Test Case 3: c_badparse.splat...failed (fault was expected during phase 2)",
		" >>> semantic error: Variable 'y' is not declared",
		"Test cases passed:   2 (66.7 %)",
		"  Lex Exception:       1 / 1 (100.0 %)",
		"  Semantic Exception:  0 / 0 (0.0 %)\n    false throws: 1",
		"  Execution Success:   1 / 1 (100.0 %)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report lacks %q:\n%s", want, text)
		}
	}
}

func TestRunMissingDir(t *testing.T) {
	var out bytes.Buffer
	if _, err := Run(filepath.Join(t.TempDir(), "nope"), Options{}, &out); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasSuffix(out.String(), "error!\n") {
		t.Fatalf("output = %q", out.String())
	}
}
