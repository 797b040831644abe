package profile_test

import (
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/assert"
)

func TestFeatureGate(t *testing.T) {
	gate := profile.NewFeatureGate(
		profile.WithFeature(profile.FeatureOpenRegistration, false),
		profile.WithFeature(profile.FeatureAccountDeletion, true),
	)

	assert.False(t, gate.Enabled(profile.FeatureOpenRegistration))
	assert.True(t, gate.Enabled(profile.FeatureAccountDeletion))
	assert.True(t, gate.Enabled("some.other.feature"), "undeclared features default to enabled")
}

func TestFeatureGateNilReceiver(t *testing.T) {
	var gate *profile.FeatureGate
	assert.True(t, gate.Enabled(profile.FeatureOpenRegistration))
}

func TestFeatureGateFromConfig(t *testing.T) {
	open := profile.NewFeatureGateFromConfig(testConfig{openRegistration: true})
	assert.True(t, open.Enabled(profile.FeatureOpenRegistration))

	closed := profile.NewFeatureGateFromConfig(testConfig{openRegistration: false})
	assert.False(t, closed.Enabled(profile.FeatureOpenRegistration))
}
