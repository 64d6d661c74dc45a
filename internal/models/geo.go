package models

// GeoInfo represents the geographic location of a node. Every field defaults
// to Unknown; a fully-unknown value is the degraded-mode result.
type GeoInfo struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// UnknownGeo returns the all-Unknown location used on every failure path.
func UnknownGeo() GeoInfo {
	return GeoInfo{
		Country: Unknown,
		Region:  Unknown,
		City:    Unknown,
	}
}

// Format renders the location as "city, region, country" with Unknown
// substituted for any missing part.
func (g GeoInfo) Format() string {
	return OrUnknown(g.City) + ", " + OrUnknown(g.Region) + ", " + OrUnknown(g.Country)
}

// OrUnknown maps the empty string to the Unknown placeholder.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
