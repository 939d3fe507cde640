package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
)

func TestDoctorLocalOnly(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := newTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{
		"✓ Local storage reachable: OK",
		"✓ Local data readable: OK",
		"⚠ Backups present: WARNING",
		"⊘ Remote database: SKIPPED (not configured)",
		"All diagnostics passed!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("doctor output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorRemoteUnreachable(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, remote := newRemoteTestContext(t)
	remote.loadErr = errors.New("connection refused")

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "❌ Remote database reachable: FAIL") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestCheckClock(t *testing.T) {
	if err := checkClock(testNow); err != nil {
		t.Errorf("checkClock(%v) = %v", testNow, err)
	}
	if err := checkClock(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected an error for a clock in 1999")
	}
}
