package logging

import "testing"

func TestGetBeforeInit(t *testing.T) {
	// Must return a usable logger even before Init.
	l := Get(CategoryNLU)
	if l == nil {
		t.Fatal("Get returned nil before Init")
	}
	l.Debug("no-op")
}

func TestGetCachesPerCategory(t *testing.T) {
	if err := Init(true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a := Get(CategoryDialogue)
	b := Get(CategoryDialogue)
	if a != b {
		t.Error("expected the same logger instance for a category")
	}
	c := Get(CategoryDispatch)
	if a == c {
		t.Error("expected distinct loggers for distinct categories")
	}
}
