package models

// GeoEntry is a memoized reverse-geocode result for one coordinate grid cell.
type GeoEntry struct {
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	UpdatedAt   int64  `json:"updatedAt"` // epoch ms
}

// CityDisplay renders the entry as "<city>, <countryCode>", falling back to
// whichever parts resolved. Empty string means nothing resolved.
func (e GeoEntry) CityDisplay() string {
	city := e.City
	if city == "" {
		city = e.Region
	}
	cc := e.CountryCode
	if cc == "" {
		cc = e.Country
	}
	switch {
	case city != "" && cc != "":
		return city + ", " + cc
	case city != "":
		return city
	default:
		return cc
	}
}
