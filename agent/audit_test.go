package agent

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tbruckner/pacemate/tools"
)

type fakeAthlete struct {
	name     string
	complete bool
	marked   bool
}

func (f *fakeAthlete) ProfileName() string      { return f.name }
func (f *fakeAthlete) OnboardingComplete() bool { return f.complete }
func (f *fakeAthlete) OnboardingMarked() bool   { return f.marked }
func (f *fakeAthlete) MarkOnboardingComplete() error {
	f.marked = true
	return nil
}

func auditLoop(athlete AthleteState) (*Loop, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	loop := NewLoop(Config{
		Tools:   tools.NewRegistry(nil),
		Athlete: athlete,
		Logger:  zap.New(core),
	})
	return loop, logs
}

func TestAuditBeliefCaptureWarnsOnUnsavedName(t *testing.T) {
	loop, logs := auditLoop(&fakeAthlete{name: ""})

	loop.auditBeliefCapture("Hallo Marco! Schön dich kennenzulernen.")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["name"]; got != "Marco" {
		t.Errorf("expected extracted name Marco, got %v", got)
	}
}

func TestAuditBeliefCaptureEnglishGreeting(t *testing.T) {
	loop, logs := auditLoop(&fakeAthlete{name: ""})

	loop.auditBeliefCapture("Hey Laura, great to have you here!")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
}

func TestAuditBeliefCaptureQuietWhenNameKnown(t *testing.T) {
	loop, logs := auditLoop(&fakeAthlete{name: "Marco"})

	loop.auditBeliefCapture("Hallo Marco! Bereit für dein Training?")

	if logs.Len() != 0 {
		t.Errorf("expected no warning when name is on record, got %d", logs.Len())
	}
}

func TestAuditBeliefCaptureQuietWithoutGreeting(t *testing.T) {
	loop, logs := auditLoop(&fakeAthlete{name: ""})

	loop.auditBeliefCapture("Your next session is a 45 minute easy run.")

	if logs.Len() != 0 {
		t.Errorf("expected no warning without a greeting, got %d", logs.Len())
	}
}

func TestAuditOnboardingFirstTransition(t *testing.T) {
	athlete := &fakeAthlete{complete: true, marked: false}
	loop, _ := auditLoop(athlete)

	if !loop.auditOnboarding() {
		t.Error("expected true on first completion")
	}
	if !athlete.marked {
		t.Error("expected onboarding to be marked")
	}

	// Already marked: no second transition.
	if loop.auditOnboarding() {
		t.Error("expected false once already marked")
	}
}

func TestAuditOnboardingIncomplete(t *testing.T) {
	loop, _ := auditLoop(&fakeAthlete{complete: false})

	if loop.auditOnboarding() {
		t.Error("expected false while profile is incomplete")
	}
}

func TestAuditsNilAthlete(t *testing.T) {
	loop, logs := auditLoop(nil)

	loop.auditBeliefCapture("Hallo Marco!")
	if logs.Len() != 0 {
		t.Errorf("expected no warning without athlete state, got %d", logs.Len())
	}
	if loop.auditOnboarding() {
		t.Error("expected false without athlete state")
	}
}
