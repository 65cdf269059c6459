package receiptpdf

import "fmt"

// Brand short codes known to the registry.
const (
	BrandCG = "CG"
	BrandCX = "CX"
	BrandDS = "DS"
)

// Brand describes one storefront's receipt branding.
type Brand struct {
	ShortCode    string
	CompanyName  string
	SupportEmail string
	WebsiteURL   string
	Logo         string // file name under __images__/company-logos/, no extension
	AddressHTML  string // registered address block, rendered verbatim
	ColoredLine  string // CSS class of the accent line
}

// brandsByCode is the immutable storefront registry. Missing-key lookups are
// typed failures, not best-effort defaults.
var brandsByCode = map[string]Brand{
	BrandCG: {
		ShortCode:    BrandCG,
		CompanyName:  "Chicks Gold",
		SupportEmail: "support@chicksgold.com",
		WebsiteURL:   "chicksgold.com",
		Logo:         "chicksgold",
		AddressHTML: "1 King Street W, Suite 4800" +
			"<br/>" +
			"Toronto, ON, Canada, M5H 1A1" +
			"<br/>" +
			"789572336",
		ColoredLine: "green-line",
	},
	BrandCX: {
		ShortCode:    BrandCX,
		CompanyName:  "ChicksX",
		SupportEmail: "support@chicksx.com",
		WebsiteURL:   "chicksx.com",
		Logo:         "chicksx",
		AddressHTML: "1 Yonge St 1801" +
			"<br/>" +
			"Toronto, ON, Canada, M5E 1W7" +
			"<br/>" +
			"787668540",
		ColoredLine: "purple-line",
	},
	BrandDS: {
		ShortCode:    BrandDS,
		CompanyName:  "Divica Sales",
		SupportEmail: "support@divicasales.com",
		WebsiteURL:   "divicasales.com",
		Logo:         "divicasales",
		AddressHTML: "1 King Street W, Suite 4800" +
			"<br/>" +
			"Toronto, ON, Canada, M5H 1A1",
		ColoredLine: "green-line",
	},
}

// defaultBrand is used for address and accent-line fallbacks where the
// original document rendered default branding rather than failing.
var defaultBrand = Brand{
	CompanyName: "Chicks Gold",
	AddressHTML: "1 King Street W, Suite 4800" +
		"<br/>" +
		"Toronto, ON, Canada, M5H 1A1" +
		"<br/>" +
		"789572336",
	ColoredLine: "green-line",
}

// BrandByCode returns the brand for a storefront short code.
// Returns ErrUnknownBrand if the code is absent from the registry.
func BrandByCode(shortCode string) (Brand, error) {
	b, ok := brandsByCode[shortCode]
	if !ok {
		return Brand{}, fmt.Errorf("%w: %q", ErrUnknownBrand, shortCode)
	}
	return b, nil
}

// brandOrDefault returns the registered brand, or the default branding for
// codes outside the registry. Used by helpers whose original output fell
// back to default branding instead of failing.
func brandOrDefault(shortCode string) Brand {
	if b, ok := brandsByCode[shortCode]; ok {
		return b
	}
	return defaultBrand
}
