package tile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	err := Wrap(KindIO, "create level dir", "/out/3", os.ErrPermission)

	if !errors.Is(err, ErrIO) {
		t.Error("Expected error to match ErrIO")
	}
	if errors.Is(err, ErrPlanning) {
		t.Error("Did not expect error to match ErrPlanning")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("Expected cause to stay reachable")
	}

	wrapped := fmt.Errorf("run: %w", err)
	if KindOf(wrapped) != KindIO {
		t.Errorf("Expected kind %v, got %v", KindIO, KindOf(wrapped))
	}
}

func TestWrapKeepsKind(t *testing.T) {
	inner := Errorf(KindUnsupportedSourceImage, "decode", "a.png", "bad header")
	outer := Wrap(KindIO, "open", "a.png", inner)
	if KindOf(outer) != KindUnsupportedSourceImage {
		t.Errorf("Expected inner kind to win, got %v", KindOf(outer))
	}
	if Wrap(KindIO, "open", "", nil) != nil {
		t.Error("Expected nil for nil cause")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(KindPlanning, "plan", "", "invalid tile size %d", 0)
	msg := err.Error()
	if !strings.HasPrefix(msg, "planning error: plan") || !strings.Contains(msg, "invalid tile size 0") {
		t.Errorf("Unexpected message %q", msg)
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("Expected no kind on plain errors")
	}
}
