package challenges

import (
	_ "embed"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yml
var fallbackYAML []byte

var (
	fallbackOnce  sync.Once
	fallbackPlans []*Plan
)

// Fallback returns the canned plans served when planning is unavailable.
func Fallback() []*Plan {
	fallbackOnce.Do(func() {
		if err := yaml.Unmarshal(fallbackYAML, &fallbackPlans); err != nil {
			log.Error().Err(err).Msg("Failed to parse fallback challenges")
		}
	})

	return fallbackPlans
}

func FallbackPlan(id string) (*Plan, bool) {
	for _, plan := range Fallback() {
		if plan.ID == id {
			return plan, true
		}
	}
	return nil, false
}
