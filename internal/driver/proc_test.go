package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nvcheck/internal/version"
)

func TestProcSourceReadsSysModuleVersion(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "version")
	if err := os.WriteFile(sysPath, []byte("570.86.16\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	source := &ProcSource{SysPath: sysPath, ProcPath: filepath.Join(dir, "absent")}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if version.Compare(got, version.MustParse("570.86.16")) != 0 {
		t.Fatalf("got %s", got)
	}
}

func TestProcSourceFallsBackToProcBanner(t *testing.T) {
	dir := t.TempDir()
	procPath := filepath.Join(dir, "nvidia-version")
	banner := "NVRM version: NVIDIA UNIX x86_64 Kernel Module  535.129.03  Thu Oct 19 18:56:32 UTC 2023\n" +
		"GCC version:  gcc version 12.3.0\n"
	if err := os.WriteFile(procPath, []byte(banner), 0o644); err != nil {
		t.Fatal(err)
	}

	source := &ProcSource{SysPath: filepath.Join(dir, "absent"), ProcPath: procPath}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.String() != "535.129.03" && got.String() != "535.129.3" {
		t.Fatalf("got %s", got)
	}
}

func TestProcSourceNoDriver(t *testing.T) {
	dir := t.TempDir()
	source := &ProcSource{
		SysPath:  filepath.Join(dir, "no-sys"),
		ProcPath: filepath.Join(dir, "no-proc"),
	}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindNoDriverPresent)
}

func TestProcSourceMalformedSysFile(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "version")
	if err := os.WriteFile(sysPath, []byte("garbage here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	source := &ProcSource{SysPath: sysPath, ProcPath: filepath.Join(dir, "absent")}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindMalformedVersion)
}

func TestProcSourceMalformedSysStillTriesBanner(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "version")
	if err := os.WriteFile(sysPath, []byte("garbage here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	procPath := filepath.Join(dir, "nvidia-version")
	banner := "NVRM version: NVIDIA UNIX x86_64 Kernel Module  570.86.16  Sat Jan 18 00:00:00 UTC 2025\n"
	if err := os.WriteFile(procPath, []byte(banner), 0o644); err != nil {
		t.Fatal(err)
	}

	source := &ProcSource{SysPath: sysPath, ProcPath: procPath}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("banner should answer when sysfs contents are unusable: %v", err)
	}
	if version.Compare(got, version.MustParse("570.86.16")) != 0 {
		t.Fatalf("got %s", got)
	}
}

func TestProcSourceDeniedSysStillTriesBanner(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not apply to root")
	}
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "version")
	if err := os.WriteFile(sysPath, []byte("570.86.16\n"), 0o000); err != nil {
		t.Fatal(err)
	}
	procPath := filepath.Join(dir, "nvidia-version")
	banner := "NVRM version: NVIDIA UNIX x86_64 Kernel Module  570.86.16  Sat Jan 18 00:00:00 UTC 2025\n"
	if err := os.WriteFile(procPath, []byte(banner), 0o644); err != nil {
		t.Fatal(err)
	}

	source := &ProcSource{SysPath: sysPath, ProcPath: procPath}
	got, err := source.Query(context.Background())
	if err != nil {
		t.Fatalf("banner should answer when sysfs denies access: %v", err)
	}
	if version.Compare(got, version.MustParse("570.86.16")) != 0 {
		t.Fatalf("got %s", got)
	}
}

func TestProcSourceDeniedSysOutranksMissingBanner(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not apply to root")
	}
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "version")
	if err := os.WriteFile(sysPath, []byte("570.86.16\n"), 0o000); err != nil {
		t.Fatal(err)
	}

	// The sysfs attribute exists, so the module is loaded; its denial is the
	// truth even though the banner path is absent.
	source := &ProcSource{SysPath: sysPath, ProcPath: filepath.Join(dir, "absent")}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindQueryDenied)
}

func TestProcSourceBannerWithoutVersionLine(t *testing.T) {
	dir := t.TempDir()
	procPath := filepath.Join(dir, "nvidia-version")
	if err := os.WriteFile(procPath, []byte("GCC version: 12.3.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	source := &ProcSource{SysPath: filepath.Join(dir, "absent"), ProcPath: procPath}
	_, err := source.Query(context.Background())
	assertKind(t, err, KindMalformedVersion)
}
