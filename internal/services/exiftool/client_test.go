package exiftool_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"mediasort/internal/services"
	"mediasort/internal/services/exiftool"
)

type stubExecutor struct {
	lines  []string
	err    error
	calls  int
	binary string
	args   [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.calls++
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onOutput(line)
	}
	return s.err
}

func TestWritePassesAssignmentsAndPath(t *testing.T) {
	stub := &stubExecutor{lines: []string{"    1 image files updated"}}
	client, err := exiftool.New("exiftool", 0, exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := client.Write(context.Background(), "/photos/1.jpg", []string{"-AllDates=2023:05:01 00:00:00", "-Keywords=rose"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("updated = %d, want 1", result.Updated)
	}
	want := []string{"-overwrite_original", "-charset", "filename=utf8", "-AllDates=2023:05:01 00:00:00", "-Keywords=rose", "--", "/photos/1.jpg"}
	if !reflect.DeepEqual(stub.args[0], want) {
		t.Fatalf("args = %v, want %v", stub.args[0], want)
	}
	if stub.binary != "exiftool" {
		t.Fatalf("binary = %q", stub.binary)
	}
}

func TestWriteWithoutOverwriteKeepsBackup(t *testing.T) {
	stub := &stubExecutor{lines: []string{"1 image files updated"}}
	client, _ := exiftool.New("exiftool", 0, exiftool.WithExecutor(stub), exiftool.WithOverwriteOriginal(false))
	if _, err := client.Write(context.Background(), "/p/1.jpg", []string{"-Keywords=a"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, arg := range stub.args[0] {
		if arg == "-overwrite_original" {
			t.Fatalf("unexpected -overwrite_original in %v", stub.args[0])
		}
	}
}

func TestWriteNoAssignmentsSkipsTool(t *testing.T) {
	stub := &stubExecutor{}
	client, _ := exiftool.New("exiftool", 0, exiftool.WithExecutor(stub))
	if _, err := client.Write(context.Background(), "/p/1.jpg", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no executor call, got %d", stub.calls)
	}
}

func TestWriteFailureClassification(t *testing.T) {
	cases := []struct {
		name       string
		lines      []string
		err        error
		wantReason string
	}{
		{
			name:       "error line",
			lines:      []string{"Error: File not found - /p/1.jpg", "    0 image files updated"},
			err:        errors.New("exit status 1"),
			wantReason: "File not found - /p/1.jpg",
		},
		{
			name:       "non-zero exit",
			err:        errors.New("exit status 2"),
			wantReason: "exiftool failed",
		},
		{
			name:       "nothing updated",
			lines:      []string{"    0 image files updated", "    1 files weren't updated due to errors"},
			wantReason: "no files updated",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubExecutor{lines: tc.lines, err: tc.err}
			client, _ := exiftool.New("exiftool", 0, exiftool.WithExecutor(stub))
			_, err := client.Write(context.Background(), "/p/1.jpg", []string{"-Keywords=a"})
			if !errors.Is(err, services.ErrExternalTool) {
				t.Fatalf("expected ErrExternalTool, got %v", err)
			}
			if reason := services.Reason(err); !strings.HasPrefix(reason, tc.wantReason) {
				t.Fatalf("reason = %q, want prefix %q", reason, tc.wantReason)
			}
		})
	}
}

func TestWriteUnchangedIsSuccessAndWarningsCollected(t *testing.T) {
	stub := &stubExecutor{lines: []string{
		"Warning: [minor] Maker notes could not be parsed - /p/1.jpg",
		"    0 image files updated",
		"    1 image files unchanged",
	}}
	client, _ := exiftool.New("exiftool", 0, exiftool.WithExecutor(stub))
	result, err := client.Write(context.Background(), "/p/1.jpg", []string{"-Keywords=a"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if result.Unchanged != 1 || len(result.Warnings) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVersion(t *testing.T) {
	stub := &stubExecutor{lines: []string{"12.76"}}
	client, _ := exiftool.New("exiftool", 5, exiftool.WithExecutor(stub))
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "12.76" {
		t.Fatalf("version = %q", version)
	}
	if !reflect.DeepEqual(stub.args[0], []string{"-ver"}) {
		t.Fatalf("args = %v", stub.args[0])
	}

	failing, _ := exiftool.New("exiftool", 0, exiftool.WithExecutor(&stubExecutor{err: errors.New("not found")}))
	if _, err := failing.Version(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := exiftool.New("  ", 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
