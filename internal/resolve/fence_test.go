package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mdweave/internal/action"
	"mdweave/internal/template"
)

func fenceAction(interpreter, code string) action.CodeFence {
	original := "```\n" + interpreter + "\n" + code + "```"
	return action.CodeFence{
		Span:        action.Span{OriginalText: original, Index: 0},
		Interpreter: interpreter,
		Code:        code,
	}
}

func TestResolveFence(t *testing.T) {
	skipOnWindows(t)

	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), fenceAction("#!/bin/sh", "echo from script\n"), t.TempDir(), NewStack(""), &Context{})
	if err != nil {
		t.Fatal(err)
	}
	if template.StripLiteralMarkers(got) != "from script" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestResolveFenceFailure(t *testing.T) {
	skipOnWindows(t)

	r := newTestResolver(nil)
	_, err := r.Resolve(context.Background(), fenceAction("#!/bin/sh", "echo broken >&2\nexit 2\n"), t.TempDir(), NewStack(""), &Context{})
	var fence *CodeFenceError
	if !errors.As(err, &fence) {
		t.Fatalf("expected CodeFenceError, got %v", err)
	}
	if fence.ExitCode != 2 {
		t.Errorf("unexpected exit code %d", fence.ExitCode)
	}
	if !strings.Contains(fence.Stderr, "broken") {
		t.Errorf("expected stderr captured, got %q", fence.Stderr)
	}
}

func TestResolveFenceDryRun(t *testing.T) {
	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), fenceAction("#!/usr/bin/env python3", "print('x')\n"), t.TempDir(), NewStack(""), &Context{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "[dry-run: #!/usr/bin/env python3 script]" {
		t.Errorf("unexpected placeholder %q", got)
	}
}

func TestResolveFenceEnvPassthrough(t *testing.T) {
	skipOnWindows(t)

	r := newTestResolver(nil)
	rctx := &Context{Env: []string{"FENCE_MARK=marker-value"}}
	got, err := r.Resolve(context.Background(), fenceAction("#!/bin/sh", "echo $FENCE_MARK\n"), t.TempDir(), NewStack(""), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if template.StripLiteralMarkers(got) != "marker-value" {
		t.Errorf("expected env var visible to script, got %q", got)
	}
}
