// Package deliverypoint resolves landing delivery-point codes through a
// four-registry priority chain:
// manual override > aqua-culture register > Mattilsynet > Fiskeridirektoratet
// buyer register, plus single-hop deprecated-id redirects.
package deliverypoint

import "fmt"

// Code is a delivery point's registry code, e.g. "N-912".
type Code string

// Source identifies which registry a DeliveryPoint record came from. Lower
// value means higher priority when two registries disagree.
type Source int

const (
	SourceManualOverride Source = iota
	SourceAquaCulture
	SourceMattilsynet
	SourceBuyerRegister
)

// DeliveryPoint is a resolved landing destination.
type DeliveryPoint struct {
	Code   Code
	Name   string
	Source Source
}

// Registry holds one source's view of delivery points, keyed by code.
type Registry struct {
	source Source
	byCode map[Code]DeliveryPoint
}

// NewRegistry builds a Registry for one source.
func NewRegistry(source Source, points []DeliveryPoint) *Registry {
	byCode := make(map[Code]DeliveryPoint, len(points))
	for _, p := range points {
		p.Source = source
		byCode[p.Code] = p
	}
	return &Registry{source: source, byCode: byCode}
}

// Chain resolves a delivery point code across registries in priority order,
// and follows deprecated-id redirects before giving up.
type Chain struct {
	registries []*Registry
	redirects  map[Code]Code
}

// NewChain builds a priority chain. Registries must be supplied in priority
// order (highest priority first); NewRegistry's Source field is informational
// only, ordering here is what actually decides precedence. Use
// SourceManualOverride, SourceAquaCulture, SourceMattilsynet,
// SourceBuyerRegister in that order.
func NewChain(redirects map[Code]Code, registries ...*Registry) *Chain {
	return &Chain{registries: registries, redirects: redirects}
}

// Resolve looks up code across the chain, following at most one redirect
// hop. A redirect chain longer than one hop (the target is itself a
// redirect source) is rejected rather than chased further.
func (c *Chain) Resolve(code Code) (DeliveryPoint, bool) {
	if dp, ok := c.resolveDirect(code); ok {
		return dp, true
	}
	target, ok := c.redirects[code]
	if !ok {
		return DeliveryPoint{}, false
	}
	if _, chained := c.redirects[target]; chained {
		return DeliveryPoint{}, false
	}
	return c.resolveDirect(target)
}

func (c *Chain) resolveDirect(code Code) (DeliveryPoint, bool) {
	for _, reg := range c.registries {
		if dp, ok := reg.byCode[code]; ok {
			return dp, true
		}
	}
	return DeliveryPoint{}, false
}

// ValidateRedirects reports every deprecated id whose redirect target is
// itself a redirect source (a chain longer than one hop), so ingestion can
// flag the data error instead of silently dropping the lookup.
func ValidateRedirects(redirects map[Code]Code) []Code {
	var chained []Code
	for from, to := range redirects {
		if _, ok := redirects[to]; ok {
			chained = append(chained, from)
		}
	}
	return chained
}

// String renders a code for logging.
func (c Code) String() string {
	return fmt.Sprintf("deliverypoint(%s)", string(c))
}
