package driver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"nvcheck/internal/version"
)

func fakeRun(output string, err error) func(context.Context, string, ...string) (string, error) {
	return func(context.Context, string, ...string) (string, error) {
		return output, err
	}
}

func TestSMISourceParsesDriverVersion(t *testing.T) {
	source := &SMISource{run: fakeRun("570.86.16\n", nil)}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if version.Compare(got, version.MustParse("570.86.16")) != 0 {
		t.Fatalf("got %s, want 570.86.16", got)
	}
}

func TestSMISourceMultiGPUUsesFirstLine(t *testing.T) {
	source := &SMISource{run: fakeRun("550.54.14\n550.54.14\n", nil)}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.String() != "550.54.14" {
		t.Fatalf("got %s", got)
	}
}

func TestSMISourceNoDevices(t *testing.T) {
	source := &SMISource{run: fakeRun("No devices were found\n", fmt.Errorf("exit status 6"))}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindNoDriverPresent)
}

func TestSMISourceDriverNotLoaded(t *testing.T) {
	output := "NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver.\n"
	source := &SMISource{run: fakeRun(output, fmt.Errorf("exit status 9"))}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindNoDriverPresent)
}

func TestSMISourcePermissionDenied(t *testing.T) {
	source := &SMISource{run: fakeRun("", fmt.Errorf("fork/exec: permission denied"))}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindQueryDenied)
}

func TestSMISourceGarbageOutput(t *testing.T) {
	source := &SMISource{run: fakeRun("not-a-version\n", nil)}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindMalformedVersion)
}

func TestSMISourceEmptyOutput(t *testing.T) {
	source := &SMISource{run: fakeRun("\n\n", nil)}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindMalformedVersion)
}

func TestSMISourceBinaryMissing(t *testing.T) {
	t.Setenv("PATH", "")
	source := NewSMISource("definitely-not-nvidia-smi")
	_, err := source.Query(context.Background())
	assertKind(t, err, KindQueryUnavailable)
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %T: %v", err, err)
	}
	if qerr.Kind != want {
		t.Fatalf("kind = %s, want %s (%v)", qerr.Kind, want, err)
	}
}
