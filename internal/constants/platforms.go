package constants

// Channel platforms a property can be connected to.
// Each platform has a corresponding ChannelClient registered at startup.
const (
	PlatformAirbnb     = "airbnb"
	PlatformBookingCom = "booking_com"
	PlatformVrbo       = "vrbo"
	PlatformExpedia    = "expedia"
)

// KnownPlatforms lists every platform accepted by the integration registry.
var KnownPlatforms = []string{
	PlatformAirbnb,
	PlatformBookingCom,
	PlatformVrbo,
	PlatformExpedia,
}

// IsKnownPlatform reports whether p is a registered platform identifier.
func IsKnownPlatform(p string) bool {
	for _, known := range KnownPlatforms {
		if known == p {
			return true
		}
	}
	return false
}
