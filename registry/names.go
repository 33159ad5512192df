package registry

import (
	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/definitions"
)

// legacyNames maps process names used by older listings to the process that
// replaced them.
var legacyNames = map[string]string{ //nolint:gochecknoglobals
	"flex-product-default-process": definitions.Purchase,
	"flex-default-process":         definitions.Booking,
	"flex-hourly-default-process":  definitions.Booking,
	"flex-booking-default-process": definitions.Booking,
}

// ResolveCanonicalName maps legacy process names to their current name. Any other
// name is returned unchanged; rejecting unknown names is left to lookups.
func ResolveCanonicalName(raw string) string {
	if canonical, ok := legacyNames[raw]; ok {
		return canonical
	}

	return raw
}

// IsFullDay reports whether unit books whole days.
func IsFullDay(unit process.UnitType) bool {
	return unit == process.UnitDay || unit == process.UnitNight
}
