package agent

import (
	"regexp"

	"go.uber.org/zap"
)

// Greeting forms the coach actually uses, German and English.
var greetingNamePattern = regexp.MustCompile(`(?:Hallo|Hi|Hey|Hello|Servus|Moin)\s+([A-ZÄÖÜ][a-zäöüß]{2,})`)

// auditBeliefCapture is a post-turn safety net: if the reply greets the
// athlete by name but the profile has no name on record, the model
// skipped an update_profile call it should have made. Warning only, the
// reply is never altered.
func (l *Loop) auditBeliefCapture(replyText string) {
	if l.config.Athlete == nil {
		return
	}
	if l.config.Athlete.ProfileName() != "" {
		return
	}

	if m := greetingNamePattern.FindStringSubmatch(replyText); m != nil {
		l.config.Logger.Warn("greeted athlete by name but profile.name is empty, "+
			"expected an update_profile call",
			zap.String("name", m[1]))
	}
}

// auditOnboarding marks onboarding complete the first time every
// required profile field is filled in. Returns true only on that first
// transition.
func (l *Loop) auditOnboarding() bool {
	if l.config.Athlete == nil {
		return false
	}
	if !l.config.Athlete.OnboardingComplete() || l.config.Athlete.OnboardingMarked() {
		return false
	}

	if err := l.config.Athlete.MarkOnboardingComplete(); err != nil {
		l.config.Logger.Warn("marking onboarding complete", zap.Error(err))
		return false
	}
	l.config.Logger.Info("onboarding complete, all required profile fields gathered")
	return true
}
