package aggregator

import (
	"cmp"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"math"
	"slices"
	"strings"
)

type dedupeKey struct {
	airline string
	depart  xtime.LocalTime
	bucket  int64
}

// dedupe keeps one offer per (airline, departure time, price bucket). Among duplicates the
// offer with the higher reliability wins; on a tie the first one encountered stays.
func dedupe(offers []common.Offer, bucketWidth float64) []common.Offer {
	result := make([]common.Offer, 0, len(offers))
	seen := make(map[dedupeKey]int, len(offers))

	for _, o := range offers {
		k := dedupeKey{
			airline: strings.ToUpper(o.Airline),
			depart:  o.DepartTime,
			bucket:  int64(math.Floor(o.Price / bucketWidth)),
		}

		if idx, ok := seen[k]; ok {
			if o.Reliability > result[idx].Reliability {
				result[idx] = o
			}

			continue
		}

		seen[k] = len(result)
		result = append(result, o)
	}

	return result
}

// merge flattens per-provider lists in the given order, dedupes, sorts by price and truncates.
func merge(lists [][]common.Offer, bucketWidth float64, maxResults int) []common.Offer {
	var flat []common.Offer
	for _, l := range lists {
		flat = append(flat, l...)
	}

	offers := dedupe(flat, bucketWidth)
	slices.SortStableFunc(offers, func(a, b common.Offer) int {
		return cmp.Compare(a.Price, b.Price)
	})

	if maxResults > 0 && len(offers) > maxResults {
		offers = offers[:maxResults]
	}

	return offers
}
