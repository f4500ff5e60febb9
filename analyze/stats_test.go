package analyze

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

func TestPayloadAnalyzeMaskOnly(t *testing.T) {
	samples := []string{"00001111", "00000000", "00001010"}
	rep, err := PayloadAnalyze(samples, "", DetailMaskOnly)
	if err != nil {
		t.Fatalf("PayloadAnalyze: %v", err)
	}
	if rep.Mask != "0000****" {
		t.Fatalf("mask = %q, want %q", rep.Mask, "0000****")
	}
	if rep.Groups != nil {
		t.Fatalf("expected no groups at DetailMaskOnly, got %v", rep.Groups)
	}
	if rep.HasEntropy {
		t.Fatalf("expected no entropy at DetailMaskOnly")
	}
}

func TestPayloadAnalyzeGroups(t *testing.T) {
	samples := []string{"00001111", "00000000", "00001010"}
	rep, err := PayloadAnalyze(samples, "", DetailGroups)
	if err != nil {
		t.Fatalf("PayloadAnalyze: %v", err)
	}
	if len(rep.Groups) != 2 {
		t.Fatalf("expected 2 segments, got %v", rep.Groups)
	}
	if rep.Groups[0].Mutable || rep.Groups[0].Value != "0000" {
		t.Fatalf("first segment = %+v, want immutable \"0000\"", rep.Groups[0])
	}
	if !rep.Groups[1].Mutable {
		t.Fatalf("second segment should be mutable: %+v", rep.Groups[1])
	}
}

func TestPayloadAnalyzeEntropy(t *testing.T) {
	rep, err := PayloadAnalyze([]string{"00001111"}, "", DetailEntropy)
	if err != nil {
		t.Fatalf("PayloadAnalyze: %v", err)
	}
	if !rep.HasEntropy {
		t.Fatalf("expected entropy to be computed")
	}
	if rep.Entropy != 1 {
		t.Fatalf("entropy of an 8-bit 50/50 sample = %v, want 1", rep.Entropy)
	}
}

func TestPayloadAnalyzeDuplicateCounting(t *testing.T) {
	samples := []string{"0000", "1111", "0000", "0000", "1111"}
	rep, err := PayloadAnalyze(samples, "", DetailMaskOnly)
	if err != nil {
		t.Fatalf("PayloadAnalyze: %v", err)
	}
	if rep.DistinctSamples != 2 {
		t.Fatalf("distinct = %d, want 2", rep.DistinctSamples)
	}
	if rep.DuplicateCount != 3 {
		t.Fatalf("duplicates = %d, want 3", rep.DuplicateCount)
	}
}

func TestPayloadAnalyzeReadsDatafile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.txt")
	content := "0000\n1111\n0000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rep, err := PayloadAnalyze(nil, path, DetailMaskOnly)
	if err != nil {
		t.Fatalf("PayloadAnalyze: %v", err)
	}
	if rep.SampleCount != 3 {
		t.Fatalf("sample count = %d, want 3", rep.SampleCount)
	}
	if rep.Mask != "****" {
		t.Fatalf("mask = %q, want \"****\"", rep.Mask)
	}
}

func TestPayloadAnalyzeNoSamplesIsSchemaError(t *testing.T) {
	if _, err := PayloadAnalyze(nil, "", DetailMaskOnly); !errors.Is(err, errs.ErrSchema) {
		t.Fatalf("expected errs.ErrSchema, got %v", err)
	}
}

func TestPayloadAnalyzeMissingFileIsIOError(t *testing.T) {
	if _, err := PayloadAnalyze(nil, "/nonexistent/path/does-not-exist.txt", DetailMaskOnly); !errors.Is(err, errs.ErrIO) {
		t.Fatalf("expected errs.ErrIO, got %v", err)
	}
}
