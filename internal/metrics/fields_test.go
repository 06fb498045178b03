package metrics

import (
	"errors"
	"testing"
)

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrMethod == "" || AttrPath == "" || AttrStatus == "" || AttrSource == "" || AttrSection == "" || AttrChart == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
}

func TestOutcome(t *testing.T) {
	if outcome(nil) != "ok" || outcome(errors.New("x")) != "error" {
		t.Fatalf("unexpected outcome labels")
	}
}
