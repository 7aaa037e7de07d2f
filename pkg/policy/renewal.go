package policy

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"proxyforge-hq/proxyforge/pkg/config"
)

// scheduleReference anchors schedule evaluation so the derived interval does
// not depend on when the generator runs.
var scheduleReference = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenewInterval converts a standard cron expression into the sleep used by
// the renewal loop: the gap between the first two activations after a fixed
// reference time. "@every 6h" yields 6h, "0 */12 * * *" yields 12h.
func RenewInterval(spec string) (time.Duration, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, &config.FieldError{
			Field:   config.KeyCertbotRenewSchedule,
			Value:   spec,
			Message: fmt.Sprintf("must be a standard cron expression: %v", err),
		}
	}

	first := sched.Next(scheduleReference)
	second := sched.Next(first)
	if first.IsZero() || second.IsZero() {
		return 0, &config.FieldError{
			Field:   config.KeyCertbotRenewSchedule,
			Value:   spec,
			Message: "schedule never fires",
		}
	}

	return second.Sub(first), nil
}
