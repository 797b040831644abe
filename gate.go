package profile

// Feature keys for gated operations.
const (
	// FeatureOpenRegistration controls self-service account creation.
	FeatureOpenRegistration = "users.open_registration"
	// FeatureAccountDeletion controls self-service account removal.
	FeatureAccountDeletion = "users.account_deletion"
)

// FeatureGate answers whether a gated operation is currently enabled. Gates
// are explicit values built from config and passed to the components that
// consult them.
type FeatureGate struct {
	features map[string]bool
}

// GateOption configures a FeatureGate
type GateOption func(*FeatureGate)

// WithFeature declares a feature and its state
func WithFeature(key string, enabled bool) GateOption {
	return func(g *FeatureGate) {
		g.features[key] = enabled
	}
}

// NewFeatureGate builds a gate. Undeclared features default to enabled so
// only explicitly switched-off operations are blocked.
func NewFeatureGate(opts ...GateOption) *FeatureGate {
	g := &FeatureGate{
		features: map[string]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// NewFeatureGateFromConfig derives the standard gates from config.
func NewFeatureGateFromConfig(cfg Config) *FeatureGate {
	return NewFeatureGate(
		WithFeature(FeatureOpenRegistration, cfg.GetOpenRegistration()),
	)
}

// Enabled reports whether the feature is on. Unknown keys are enabled.
func (g *FeatureGate) Enabled(key string) bool {
	if g == nil || g.features == nil {
		return true
	}
	enabled, declared := g.features[key]
	if !declared {
		return true
	}
	return enabled
}
