package currency

// symbolsByCode maps ISO-4217 codes to display symbols. This is a closed
// enumeration: codes outside this table are rejected by Symbol.
var symbolsByCode = map[string]string{
	"AFN": "AF",
	"ALL": "L",
	"AMD": "Դ",
	"AOA": "KZ",
	"ARS": "$",
	"AUD": "AU$",
	"AWG": "ƒ",
	"AZN": "ман",
	"BAM": "КМ",
	"BBD": "$",
	"BDT": "৳",
	"BGN": "лв",
	"BIF": "₣",
	"BMD": "$",
	"BND": "$",
	"BOB": "BS.",
	"BRL": "R$",
	"BSD": "$",
	"BWP": "P",
	"BYN": "BR",
	"BZD": "$",
	"CAD": "CA$",
	"CDF": "₣",
	"CHF": "FR",
	"CLP": "$",
	"CNY": "¥",
	"COP": "$",
	"CRC": "₡",
	"CUP": "$",
	"CVE": "$",
	"CZK": "KČ",
	"DJF": "₣",
	"DKK": "KR",
	"DOP": "$",
	"EGP": "£",
	"EUR": "€",
	"FJD": "$",
	"FKP": "£",
	"GBP": "£",
	"GEL": "ლ",
	"GHS": "₵",
	"GIP": "£",
	"GMD": "D",
	"GNF": "₣",
	"GTQ": "Q",
	"GYD": "$",
	"HKD": "$",
	"HNL": "L",
	"HRK": "KN",
	"HTG": "G",
	"HUF": "FT",
	"IDR": "RP",
	"ILS": "₪",
	"INR": "₹",
	"ISK": "KR",
	"JMD": "$",
	"JPY": "¥",
	"KHR": "៛",
	"KPW": "₩",
	"KRW": "₩",
	"KYD": "$",
	"KZT": "〒",
	"LAK": "₭",
	"LKR": "RS",
	"LRD": "$",
	"LSL": "L",
	"MDL": "L",
	"MKD": "ден",
	"MMK": "K",
	"MNT": "₮",
	"MOP": "P",
	"MRU": "UM",
	"MUR": "₨",
	"MVR": "ރ.",
	"MWK": "MK",
	"MXN": "$",
	"MYR": "RM",
	"MZN": "MTN",
	"NAD": "$",
	"NGN": "₦",
	"NIO": "C$",
	"NOK": "KR",
	"NPR": "₨",
	"NZD": "NZ$",
	"PAB": "B/.",
	"PEN": "S/.",
	"PGK": "K",
	"PHP": "₱",
	"PKR": "₨",
	"PLN": "zł",
	"PYG": "₲",
	"RON": "L",
	"RSD": "DIN",
	"RUB": "P.",
	"RWF": "₣",
	"SBD": "$",
	"SCR": "₨",
	"SDG": "£",
	"SEK": "KR",
	"SGD": "$",
	"SHP": "£",
	"SLL": "LE",
	"SOS": "SH",
	"SRD": "$",
	"STN": "DB",
	"SZL": "L",
	"THB": "฿",
	"TJS": "ЅМ",
	"TMT": "M",
	"TOP": "T$",
	"TRY": "₤",
	"TTD": "$",
	"TWD": "$",
	"TZS": "SH",
	"UAH": "₴",
	"UGX": "SH",
	"USD": "$",
	"UYU": "$",
	"VND": "Đ",
	"VUV": "VT",
	"WST": "T",
	"XAF": "₣",
	"XCD": "$",
	"XPF": "₣",
	"ZAR": "R",
	"ZMW": "ZK",
	"ZWL": "$",
}
