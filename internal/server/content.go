package server

import (
	"strings"

	"github.com/raysh454/vulnscan-web/internal/model"
)

// staticFeatures is shown on the home page when the backend does not
// describe its features.
var staticFeatures = []model.Feature{
	{Name: "🔒 HTTPS Check", Description: "Verify SSL/TLS encryption status"},
	{Name: "🛡️ Headers Analysis", Description: "Detect missing security headers"},
	{Name: "📊 Risk Score", Description: "Get instant security assessment"},
}

// PricingTier is one card of the pricing page.
type PricingTier struct {
	Key         string
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
	Limitations []string
	Benefits    []string
	CTA         string
	Highlighted bool
}

type faq struct {
	Q string
	A string
}

func staticTiers() []PricingTier {
	return []PricingTier{
		{
			Key:         "free",
			Name:        "Free",
			Price:       "$0",
			Description: "Perfect for quick security checks",
			Features: []string{
				"Basic URL security scanning",
				"Standard log analysis",
				"Limited threat details (10 max)",
				"Scan history access",
				"Basic recommendations",
				"Passive checks only",
			},
			Limitations: []string{
				"Limited threat breakdown",
				"No premium insights",
				"Standard severity assessment",
			},
			CTA: "Get Started Free",
		},
		{
			Key:         "premium",
			Name:        "Premium",
			Price:       "$9.99",
			Period:      "/month",
			Description: "For thorough security analysis",
			Features: []string{
				"All free tier features",
				"Full threat breakdown",
				"Premium security insights",
				"Detailed threat explanations",
				"Advanced recommendations",
				"Unlimited threat details",
				"Priority support",
			},
			CTA:         "Coming Soon",
			Highlighted: true,
		},
		{
			Key:         "pro",
			Name:        "Pro",
			Price:       "Custom",
			Description: "For organizations & teams",
			Features: []string{
				"All premium features",
				"API access",
				"Custom integrations",
				"Team collaboration",
				"Dedicated support",
				"Advanced reporting",
				"SLA guarantee",
			},
			CTA: "Contact Sales",
		},
	}
}

// overlayTiers copies the backend's cost and benefits onto the matching
// static tiers. Tiers the backend does not know keep their static text.
func overlayTiers(tiers []PricingTier, info *model.TierInfo) []PricingTier {
	if info == nil {
		return tiers
	}
	for i := range tiers {
		live, ok := info.Tiers[tiers[i].Key]
		if !ok {
			continue
		}
		if cost := strings.TrimSpace(live.Cost); cost != "" {
			tiers[i].Price = cost
			tiers[i].Period = ""
		}
		if len(live.Benefits) > 0 {
			tiers[i].Benefits = live.Benefits
		}
	}
	return tiers
}

var pricingFAQ = []faq{
	{"What happens to my data?", "Your scan data is stored temporarily for history retrieval. We never share or sell your scanning data."},
	{"Do you perform intrusive testing?", "No. VulnScan Lite performs passive security checks only. It does not attempt exploitation or aggressive pentesting."},
	{"Can I scan someone else's website?", "Only scan websites you own or have explicit written permission to test. Unauthorized scanning may violate laws."},
	{"How often can I scan?", "Free tier users can scan as often as they need. Premium tier is coming with unlimited scans."},
	{"Is this a replacement for penetration testing?", "No. This tool provides quick security insights but is not a substitute for professional security audits."},
	{"When will Premium tier be available?", "Premium features are currently in development. Sign up to be notified when they launch."},
}
