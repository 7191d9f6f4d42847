package parser

import "strings"

// PlatformProfile describes one known e-commerce platform: the header
// substrings that betray its exports and the maximum confidence its
// fingerprint can reach. The generic profile has the lowest ceiling and acts
// as the fallback.
type PlatformProfile struct {
	Name       string
	Indicators []string
	Ceiling    float64
}

// platformProfiles is iterated in this fixed order; ties on confidence
// prefer the higher ceiling, then the earlier profile.
var platformProfiles = []PlatformProfile{
	{Name: "amazon", Indicators: []string{"asin", "fnsku", "seller-sku", "afn-fulfillable-quantity", "amazon"}, Ceiling: 0.95},
	{Name: "shopify", Indicators: []string{"handle", "variant-id", "variant-inventory-qty", "variant-price", "shopify"}, Ceiling: 0.95},
	{Name: "ebay", Indicators: []string{"item-id", "custom-label", "available-quantity", "listing-title", "ebay"}, Ceiling: 0.90},
	{Name: "etsy", Indicators: []string{"listing_id", "etsy"}, Ceiling: 0.85},
	{Name: "woocommerce", Indicators: []string{"stock_quantity", "regular_price", "woocommerce", "wordpress"}, Ceiling: 0.90},
	{Name: "magento", Indicators: []string{"entity_id", "magento"}, Ceiling: 0.85},
	{Name: "square", Indicators: []string{"square_id", "item_variation_id", "square"}, Ceiling: 0.85},
	{Name: "bigcommerce", Indicators: []string{"bigcommerce_id", "inventory_level", "bigcommerce"}, Ceiling: 0.85},
	{Name: "generic", Indicators: []string{"sku", "stock", "quantity", "inventory"}, Ceiling: 0.50},
}

// detectPlatform fingerprints the source platform from header text alone:
// confidence = matched indicators / total indicators x profile ceiling.
func detectPlatform(headers []string) (string, float64) {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}

	bestName := "generic"
	bestConfidence := 0.0
	bestCeiling := 0.0

	for _, profile := range platformProfiles {
		matches := 0
		for _, indicator := range profile.Indicators {
			for _, header := range lowered {
				if strings.Contains(header, indicator) {
					matches++
					break
				}
			}
		}

		confidence := float64(matches) / float64(len(profile.Indicators)) * profile.Ceiling
		if confidence > bestConfidence ||
			(confidence == bestConfidence && confidence > 0 && profile.Ceiling > bestCeiling) {
			bestName = profile.Name
			bestConfidence = confidence
			bestCeiling = profile.Ceiling
		}
	}

	return bestName, bestConfidence
}
