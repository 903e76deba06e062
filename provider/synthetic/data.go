package synthetic

import (
	"math"
	"strings"
)

type region string

const (
	regionNorthAmerica = region("NA")
	regionSouthAmerica = region("SA")
	regionEurope       = region("EU")
	regionMiddleEast   = region("ME")
	regionAsia         = region("AS")
	regionOceania      = region("OC")
	regionAfrica       = region("AF")
)

type airport struct {
	region region
	lat    float64
	lng    float64
}

var airports = map[string]airport{
	"ATL": {regionNorthAmerica, 33.64, -84.43},
	"BOS": {regionNorthAmerica, 42.36, -71.01},
	"DEN": {regionNorthAmerica, 39.86, -104.67},
	"DFW": {regionNorthAmerica, 32.90, -97.04},
	"JFK": {regionNorthAmerica, 40.64, -73.78},
	"LAS": {regionNorthAmerica, 36.08, -115.15},
	"LAX": {regionNorthAmerica, 33.94, -118.41},
	"MEX": {regionNorthAmerica, 19.44, -99.07},
	"MIA": {regionNorthAmerica, 25.80, -80.29},
	"ORD": {regionNorthAmerica, 41.98, -87.90},
	"SEA": {regionNorthAmerica, 47.45, -122.31},
	"SFO": {regionNorthAmerica, 37.62, -122.38},
	"YVR": {regionNorthAmerica, 49.19, -123.18},
	"YYZ": {regionNorthAmerica, 43.68, -79.63},
	"BOG": {regionSouthAmerica, 4.70, -74.15},
	"EZE": {regionSouthAmerica, -34.82, -58.54},
	"GRU": {regionSouthAmerica, -23.43, -46.47},
	"SCL": {regionSouthAmerica, -33.39, -70.79},
	"AMS": {regionEurope, 52.31, 4.76},
	"BCN": {regionEurope, 41.30, 2.08},
	"CDG": {regionEurope, 49.01, 2.55},
	"DUB": {regionEurope, 53.42, -6.27},
	"FCO": {regionEurope, 41.80, 12.25},
	"FRA": {regionEurope, 50.03, 8.56},
	"IST": {regionEurope, 41.26, 28.74},
	"LHR": {regionEurope, 51.47, -0.45},
	"MAD": {regionEurope, 40.49, -3.57},
	"MUC": {regionEurope, 48.35, 11.79},
	"VIE": {regionEurope, 48.11, 16.57},
	"ZRH": {regionEurope, 47.46, 8.55},
	"AUH": {regionMiddleEast, 24.43, 54.65},
	"DOH": {regionMiddleEast, 25.27, 51.61},
	"DXB": {regionMiddleEast, 25.25, 55.36},
	"BKK": {regionAsia, 13.69, 100.75},
	"BOM": {regionAsia, 19.09, 72.87},
	"DEL": {regionAsia, 28.56, 77.10},
	"HKG": {regionAsia, 22.31, 113.91},
	"HND": {regionAsia, 35.55, 139.78},
	"ICN": {regionAsia, 37.46, 126.44},
	"NRT": {regionAsia, 35.77, 140.39},
	"PEK": {regionAsia, 40.08, 116.58},
	"PVG": {regionAsia, 31.14, 121.81},
	"SIN": {regionAsia, 1.36, 103.99},
	"AKL": {regionOceania, -37.01, 174.79},
	"MEL": {regionOceania, -37.67, 144.84},
	"SYD": {regionOceania, -33.95, 151.18},
	"CAI": {regionAfrica, 30.12, 31.41},
	"JNB": {regionAfrica, -26.14, 28.24},
	"NBO": {regionAfrica, -1.32, 36.93},
}

type airline struct {
	code    string
	name    string
	regions []region
	hubs    []string
}

var airlines = []airline{
	{"AA", "American Airlines", []region{regionNorthAmerica, regionSouthAmerica, regionEurope}, []string{"DFW", "ORD", "MIA"}},
	{"DL", "Delta Air Lines", []region{regionNorthAmerica, regionEurope, regionAsia}, []string{"ATL", "JFK", "SEA"}},
	{"UA", "United Airlines", []region{regionNorthAmerica, regionEurope, regionAsia, regionOceania}, []string{"ORD", "DEN", "SFO"}},
	{"B6", "JetBlue", []region{regionNorthAmerica}, []string{"JFK", "BOS"}},
	{"AS", "Alaska Airlines", []region{regionNorthAmerica}, []string{"SEA", "SFO"}},
	{"AC", "Air Canada", []region{regionNorthAmerica, regionEurope}, []string{"YYZ", "YVR"}},
	{"LA", "LATAM", []region{regionSouthAmerica, regionNorthAmerica}, []string{"GRU", "SCL"}},
	{"AV", "Avianca", []region{regionSouthAmerica}, []string{"BOG"}},
	{"BA", "British Airways", []region{regionEurope, regionNorthAmerica}, []string{"LHR"}},
	{"AF", "Air France", []region{regionEurope, regionAfrica}, []string{"CDG"}},
	{"LH", "Lufthansa", []region{regionEurope, regionNorthAmerica, regionAsia}, []string{"FRA", "MUC"}},
	{"KL", "KLM", []region{regionEurope}, []string{"AMS"}},
	{"IB", "Iberia", []region{regionEurope, regionSouthAmerica}, []string{"MAD"}},
	{"LX", "Swiss", []region{regionEurope}, []string{"ZRH"}},
	{"TK", "Turkish Airlines", []region{regionEurope, regionMiddleEast, regionAfrica, regionAsia}, []string{"IST"}},
	{"EK", "Emirates", []region{regionMiddleEast, regionEurope, regionAsia, regionOceania, regionAfrica}, []string{"DXB"}},
	{"QR", "Qatar Airways", []region{regionMiddleEast, regionEurope, regionAsia, regionAfrica}, []string{"DOH"}},
	{"EY", "Etihad Airways", []region{regionMiddleEast, regionAsia}, []string{"AUH"}},
	{"SQ", "Singapore Airlines", []region{regionAsia, regionOceania, regionEurope}, []string{"SIN"}},
	{"CX", "Cathay Pacific", []region{regionAsia, regionOceania}, []string{"HKG"}},
	{"NH", "All Nippon Airways", []region{regionAsia, regionNorthAmerica}, []string{"HND", "NRT"}},
	{"KE", "Korean Air", []region{regionAsia}, []string{"ICN"}},
	{"QF", "Qantas", []region{regionOceania, regionAsia}, []string{"SYD", "MEL"}},
	{"NZ", "Air New Zealand", []region{regionOceania}, []string{"AKL"}},
	{"ET", "Ethiopian Airlines", []region{regionAfrica}, []string{"NBO", "CAI"}},
}

// routePrices holds one-way economy base fares in USD, keyed by the alphabetically ordered pair.
var routePrices = map[string]float64{
	"JFK-LAX": 289,
	"JFK-SFO": 309,
	"JFK-MIA": 149,
	"BOS-JFK": 99,
	"LAX-SFO": 89,
	"LAS-LAX": 79,
	"JFK-ORD": 159,
	"ATL-JFK": 169,
	"JFK-LHR": 549,
	"CDG-JFK": 529,
	"LAX-NRT": 799,
	"LAX-SYD": 1099,
	"CDG-LHR": 119,
	"FRA-LHR": 139,
	"DXB-LHR": 489,
	"HKG-SIN": 229,
	"MEL-SYD": 99,
}

var narrowBody = []string{"320", "321", "32N", "738", "7M8", "E90", "223"}

var wideBody = []string{"333", "359", "388", "77W", "789", "788"}

func routeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}

	return a + "-" + b
}

func lookupAirport(code string) (airport, bool) {
	ap, ok := airports[strings.ToUpper(code)]
	return ap, ok
}

// distanceKm returns the great-circle distance between two known airports.
func distanceKm(origin, destination string) (float64, bool) {
	a, okA := lookupAirport(origin)
	b, okB := lookupAirport(destination)
	if !okA || !okB {
		return 0, false
	}

	const earthRadiusKm = 6371.0
	rad := math.Pi / 180

	dLat := (b.lat - a.lat) * rad
	dLng := (b.lng - a.lng) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.lat*rad)*math.Cos(b.lat*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h)), true
}

// basePrice resolves the economy base fare: explicit route first, then distance, then region.
func basePrice(origin, destination string) float64 {
	if p, ok := routePrices[routeKey(origin, destination)]; ok {
		return p
	}

	if km, ok := distanceKm(origin, destination); ok {
		return math.Round(59 + km*0.085)
	}

	a, okA := lookupAirport(origin)
	b, okB := lookupAirport(destination)
	switch {
	case okA && okB && a.region == b.region:
		return 199
	case okA || okB:
		return 649
	default:
		return 349
	}
}

// roster returns the airlines serving the regions of origin or destination. Unknown airports
// or sparse regions fall back to the full list.
func roster(origin, destination string) []airline {
	var wanted []region
	if ap, ok := lookupAirport(origin); ok {
		wanted = append(wanted, ap.region)
	}

	if ap, ok := lookupAirport(destination); ok {
		wanted = append(wanted, ap.region)
	}

	if len(wanted) == 0 {
		return airlines
	}

	var result []airline
	for _, al := range airlines {
		if servesAll(al, wanted) {
			result = append(result, al)
		}
	}

	if len(result) < 3 {
		for _, al := range airlines {
			if servesAny(al, wanted) && !containsAirline(result, al.code) {
				result = append(result, al)
			}
		}
	}

	if len(result) < 3 {
		return airlines
	}

	return result
}

func servesAll(al airline, wanted []region) bool {
	for _, w := range wanted {
		if !servesAny(al, []region{w}) {
			return false
		}
	}

	return true
}

func servesAny(al airline, wanted []region) bool {
	for _, r := range al.regions {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}

	return false
}

func containsAirline(list []airline, code string) bool {
	for _, al := range list {
		if al.code == code {
			return true
		}
	}

	return false
}
