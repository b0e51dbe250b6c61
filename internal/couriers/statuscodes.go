package couriers

import (
	"fmt"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// statusCodeGroups is the declarative authoring form of a carrier's status
// table: canonical status → the carrier-native codes it covers. Grouping by
// canonical status keeps the tables readable; invert turns them into the
// per-code lookup used when mapping events.
type statusCodeGroups map[domain.TrackingStatus][]string

// invert builds the code → canonical status lookup. A native code listed
// under two different canonical statuses is a programming error in the table,
// so invert panics to fail at process start rather than mistranslate events
// at runtime.
func (g statusCodeGroups) invert() map[string]domain.TrackingStatus {
	lookup := make(map[string]domain.TrackingStatus)
	for status, codes := range g {
		for _, code := range codes {
			if existing, ok := lookup[code]; ok && existing != status {
				panic(fmt.Sprintf("couriers: status code %q mapped to both %s and %s", code, existing, status))
			}
			lookup[code] = status
		}
	}
	return lookup
}
