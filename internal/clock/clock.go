// Package clock provides the production wall clock.
package clock

import (
	"time"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// System is the wall-clock implementation of trend.Clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

var _ trend.Clock = System{}
