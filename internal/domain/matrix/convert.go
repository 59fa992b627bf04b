package matrix

import (
	"strconv"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

func monthBucketsToStrings(buckets []MonthBucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = strconv.Itoa(int(b))
	}
	return out
}

func catchLocationsToStrings(ids []catchlocation.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func gearGroupsToStrings(groups []haul.GearGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

func speciesGroupsToStrings(groups []haul.SpeciesGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

func lengthGroupsToStrings(groups []vessel.LengthGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}
