package common

import "strings"

// WideBodyAircraft holds IATA aircraft type codes of twin-aisle aircraft.
var WideBodyAircraft = NewCodeSet(
	"330", "332", "333", "338", "339", "A330",
	"350", "351", "359", "A350",
	"380", "388", "A380",
	"744", "748", "B747",
	"763", "764", "B767",
	"772", "773", "77W", "77L", "B777",
	"787", "788", "789", "78X", "B787",
)

func IsWideBody(aircraft string) bool {
	return WideBodyAircraft.Contains(strings.ToUpper(strings.TrimSpace(aircraft)))
}
