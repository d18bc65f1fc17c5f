package settings

// Well-known setting keys. Values are stored as strings; typed
// accessors on the service do the parsing.
const (
	KeyDailyRate  = "daily_rate"
	KeyOrgName    = "org_name"
	KeyOrgAddress = "org_address"
	KeyOrgLogoURL = "org_logo_url"
)

// DefaultDailyRateIDR applies when the daily_rate row is missing or
// unparseable.
const DefaultDailyRateIDR = 500
