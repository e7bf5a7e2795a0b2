package ctdf

type Stop struct {
	ID   string `json:"id" groups:"basic"`
	Name string `json:"name" groups:"basic"`
}

// StopDisplayName prefixes the stop name with its broader location name when the two differ
func StopDisplayName(locationName *string, stopName *string) string {
	switch {
	case stopName == nil && locationName == nil:
		return ""
	case stopName == nil:
		return *locationName
	case locationName != nil && *locationName != *stopName:
		return *locationName + " " + *stopName
	default:
		return *stopName
	}
}

type StopsResult struct {
	Stops []*Stop `json:"stops" groups:"basic"`
}
