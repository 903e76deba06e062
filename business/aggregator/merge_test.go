package aggregator

import (
	"github.com/explore-flights/farefinder/common"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDedupe(t *testing.T) {
	withReliability := func(o common.Offer, r common.Reliability) common.Offer {
		o.Reliability = r
		return o
	}

	offers := []common.Offer{
		withReliability(offer("a", "AA", "08:00", 99.99), common.ReliabilityLow),
		withReliability(offer("b", "aa", "08:00", 50), common.ReliabilityHigh),
		withReliability(offer("c", "AA", "08:00", 100), common.ReliabilityHigh),
		withReliability(offer("d", "AA", "08:05", 60), common.ReliabilityLow),
		withReliability(offer("e", "AA", "08:00", 149.99), common.ReliabilityLow),
	}

	result := dedupe(offers, 50)

	ids := make([]string, 0, len(result))
	for _, o := range result {
		ids = append(ids, o.Id)
	}

	assert.Equal(t, []string{"b", "c", "d"}, ids)
}

func TestMerge_Stable(t *testing.T) {
	lists := [][]common.Offer{
		{offer("1", "AA", "08:00", 200), offer("2", "DL", "08:00", 100)},
		{offer("3", "UA", "08:00", 200)},
	}

	result := merge(lists, 50, 2)
	if assert.Len(t, result, 2) {
		assert.Equal(t, "2", result[0].Id)
		assert.Equal(t, "1", result[1].Id)
	}
}
