package receiptpdf

import (
	"regexp"
	"strings"
)

// Icon path constants for statically resolved product icons.
const (
	iconNoImage           = "__images__/no-image-icon.png"
	iconWoWRetailCurrency = "__images__/wow-retail-currency-icon.png"
	iconWoWTBCCurrency    = "__images__/wow-classic-tbc-currency-icon.png"
	iconWoWSoMCurrency    = "__images__/wow-classic-som-currency-icon.png"
	iconWoWClassicCurrency = "__images__/wow-classic-currency-icon.png"
	iconBalance           = "__images__/balance.png"
	iconBalanceWithdrawal = "__images__/balance-withdrawal.png"
	iconSubscription      = "__images__/vip_chicks.png"
	iconOSRSQuesting      = "__images__/osrs-questing-icon.png"
	iconOSRSDiaries       = "__images__/diaries-osrs-product-icon.png"
	iconOSRSPvM           = "__images__/pvm-osrs-product-icon.png"
	iconMinigame          = "__images__/minigame-product-icon.png"
	iconNewWorld          = "__images__/nw-small.png"
	iconLoL               = "__images__/lol-small.png"
)

// Product categories and game short names that resolve to static icons or
// stored product images rather than per-skill artwork.
var (
	staticProductCategoryNames = []string{"Currency", "Skins", "Account", "Item", "Gift Cards"}
	staticGameShortNames       = []string{"BALANCE", "SUBSCRIPTION"}
)

var nonAlphaPattern = regexp.MustCompile("[^a-zA-Z]")

// resolveIcon returns the icon source for a product line item: a static
// image token path, a per-skill artwork path, or the prefetched data URI for
// products whose image lives in the external asset store. prefetched is the
// icon source resolved at context-build time: a data URI, the no-image icon
// when the declared image could not be fetched, or empty when the item never
// had a stored image.
func resolveIcon(prefetched, name, productName, categoryName, gameShortName, orderStatus string) string {
	if !usesStoredImage(productName, categoryName, gameShortName) {
		return skillIcon(name)
	}

	if categoryName == "Currency" {
		return currencyIcon(prefetched, gameShortName)
	}

	switch {
	case productName == "Balance":
		return iconBalance
	case strings.Contains(gameShortName, "BALANCE"):
		if strings.Contains(orderStatus, "refunded") {
			return iconBalanceWithdrawal
		}
		return "__images__/balance-" + strings.ToLower(productName) + ".png"
	case strings.Contains(gameShortName, "SUBSCRIPTION"):
		return iconSubscription
	case prefetched != "":
		return prefetched
	default:
		return iconNoImage
	}
}

// usesStoredImage reports whether the product resolves through the static
// category branch (stored image or fixed icon) rather than skill artwork.
func usesStoredImage(productName, categoryName, gameShortName string) bool {
	for _, c := range staticProductCategoryNames {
		if strings.Contains(categoryName, c) {
			return true
		}
	}
	if strings.Contains(productName, "Balance") {
		return true
	}
	for _, g := range staticGameShortNames {
		if strings.Contains(gameShortName, g) {
			return true
		}
	}
	return false
}

// currencyIcon resolves icons for the Currency category: the stored product
// image when one exists, else a WoW-era icon by game short name.
func currencyIcon(prefetched, gameShortName string) string {
	switch {
	case prefetched != "":
		return prefetched
	case strings.Contains(gameShortName, "WOWL"):
		return iconWoWRetailCurrency
	case strings.Contains(gameShortName, "WOWTBC"):
		return iconWoWTBCCurrency
	case strings.Contains(gameShortName, "WOWSOM"):
		return iconWoWSoMCurrency
	case strings.Contains(gameShortName, "WOW"), strings.Contains(gameShortName, "WOWWOTLK"):
		return iconWoWClassicCurrency
	default:
		return iconNoImage
	}
}

// skillIcon resolves per-skill artwork from a "Game | Skill" display name.
func skillIcon(name string) string {
	words := strings.Split(name, "|")
	if len(words) < 2 {
		return iconNoImage
	}

	game := strings.ToLower(strings.ReplaceAll(words[0], " ", ""))
	skillName := strings.ReplaceAll(strings.ToLower(nonAlphaPattern.ReplaceAllString(words[1], " ")), " ", "")

	switch {
	case strings.Contains(skillName, "quest"):
		return iconOSRSQuesting
	case strings.Contains(skillName, "diary"):
		return iconOSRSDiaries
	case strings.Contains(skillName, "pvm"):
		return iconOSRSPvM
	case strings.Contains(skillName, "minigames"):
		return iconMinigame
	case strings.Contains(game, "osrs"), strings.Contains(game, "rs3"):
		return "__images__/skills/" + game + "/" + skillName + ".png"
	case strings.Contains(game, "nw"):
		return iconNewWorld
	case strings.Contains(game, "lol"):
		return iconLoL
	default:
		return iconNoImage
	}
}

// iconFetchPath returns the asset-store path to prefetch for a line item, or
// empty when the decision tree resolves a static icon without I/O. Mirrors
// resolveIcon: only the branches that display the stored product image need
// a fetch.
func iconFetchPath(item *OrderLineItem) string {
	if item.ImagePath == "" {
		return ""
	}
	if !usesStoredImage(item.ProductName, item.CategoryName, item.GameShortName) {
		return ""
	}
	if item.CategoryName == "Currency" {
		return item.ImagePath
	}
	if item.ProductName == "Balance" ||
		strings.Contains(item.GameShortName, "BALANCE") ||
		strings.Contains(item.GameShortName, "SUBSCRIPTION") {
		return ""
	}
	return item.ImagePath
}
