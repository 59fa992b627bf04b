package deliverypoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orcalabs/kyogre/internal/domain/deliverypoint"
)

func chain(redirects map[deliverypoint.Code]deliverypoint.Code) *deliverypoint.Chain {
	manual := deliverypoint.NewRegistry(deliverypoint.SourceManualOverride, []deliverypoint.DeliveryPoint{
		{Code: "N-100", Name: "Manual Name"},
	})
	aqua := deliverypoint.NewRegistry(deliverypoint.SourceAquaCulture, []deliverypoint.DeliveryPoint{
		{Code: "N-100", Name: "Aqua Name"},
		{Code: "N-200", Name: "Aqua Only"},
	})
	mattilsynet := deliverypoint.NewRegistry(deliverypoint.SourceMattilsynet, []deliverypoint.DeliveryPoint{
		{Code: "N-300", Name: "Mattilsynet Only"},
	})
	buyer := deliverypoint.NewRegistry(deliverypoint.SourceBuyerRegister, []deliverypoint.DeliveryPoint{
		{Code: "N-400", Name: "Buyer Only"},
	})
	return deliverypoint.NewChain(redirects, manual, aqua, mattilsynet, buyer)
}

func TestChain_HigherPriorityRegistryWins(t *testing.T) {
	c := chain(nil)
	dp, ok := c.Resolve("N-100")
	assert.True(t, ok)
	assert.Equal(t, "Manual Name", dp.Name)
	assert.Equal(t, deliverypoint.SourceManualOverride, dp.Source)
}

func TestChain_FallsThroughToLowerPriority(t *testing.T) {
	c := chain(nil)
	dp, ok := c.Resolve("N-300")
	assert.True(t, ok)
	assert.Equal(t, "Mattilsynet Only", dp.Name)
}

func TestChain_UnknownCodeNotFound(t *testing.T) {
	c := chain(nil)
	_, ok := c.Resolve("N-999")
	assert.False(t, ok)
}

func TestChain_SingleHopRedirect(t *testing.T) {
	c := chain(map[deliverypoint.Code]deliverypoint.Code{"N-OLD": "N-400"})
	dp, ok := c.Resolve("N-OLD")
	assert.True(t, ok)
	assert.Equal(t, "Buyer Only", dp.Name)
}

func TestChain_RejectsMultiHopRedirect(t *testing.T) {
	c := chain(map[deliverypoint.Code]deliverypoint.Code{
		"N-OLDEST": "N-OLD",
		"N-OLD":    "N-400",
	})
	_, ok := c.Resolve("N-OLDEST")
	assert.False(t, ok)
}

func TestValidateRedirects_FlagsChainedRedirects(t *testing.T) {
	redirects := map[deliverypoint.Code]deliverypoint.Code{
		"N-OLDEST": "N-OLD",
		"N-OLD":    "N-400",
		"N-CLEAN":  "N-400",
	}
	chained := deliverypoint.ValidateRedirects(redirects)
	assert.ElementsMatch(t, []deliverypoint.Code{"N-OLDEST"}, chained)
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "deliverypoint(N-100)", deliverypoint.Code("N-100").String())
}
