package council

import (
	"fmt"
	"time"
)

// Per-agent wall-clock cost estimates. Reasoning calls are strictly more
// expensive than fast calls, and an enabled discussion round roughly doubles
// the number of worker calls.
const (
	perAgentCostFast      = 4 * time.Second
	perAgentCostReasoning = 15 * time.Second
	discussionMultiplier  = 2
)

// ConfigRejectedError is the pre-flight admission-control rejection. It is
// the only error the pipeline surfaces to callers; every other failure
// degrades in-band.
type ConfigRejectedError struct {
	Estimate time.Duration
	Ceiling  time.Duration
}

func (e *ConfigRejectedError) Error() string {
	return fmt.Sprintf("turn rejected: estimated runtime %s exceeds ceiling %s",
		e.Estimate, e.Ceiling)
}

// EstimateRuntime estimates the wall-clock cost of a turn from its
// configuration alone. Pure, monotonic in agentCount, and non-negative.
func EstimateRuntime(agentCount int, mode Mode, discussionEnabled bool) time.Duration {
	if agentCount < 0 {
		agentCount = 0
	}

	perAgent := perAgentCostFast
	if mode == ModeReasoning {
		perAgent = perAgentCostReasoning
	}

	estimate := time.Duration(agentCount) * perAgent
	if discussionEnabled {
		estimate *= discussionMultiplier
	}
	return estimate
}

// CheckBudget gates a turn before any gateway call is issued. A ceiling of
// zero or less disables the gate. Returns *ConfigRejectedError when the
// estimate exceeds the ceiling.
func CheckBudget(agentCount int, mode Mode, discussionEnabled bool, ceiling time.Duration) error {
	if ceiling <= 0 {
		return nil
	}
	estimate := EstimateRuntime(agentCount, mode, discussionEnabled)
	if estimate > ceiling {
		return &ConfigRejectedError{Estimate: estimate, Ceiling: ceiling}
	}
	return nil
}
