package htmltok

import "strconv"

// decodeEntities decodes HTML character references in text content.
// HTML5 §12.2.4.2/.3/.4: named references, decimal (&#NNN;) and
// hexadecimal (&#xHH;) numeric references.
func decodeEntities(s string) string {
	if !containsAmp(s) {
		return s
	}

	var result []byte
	i := 0
	for i < len(s) {
		if s[i] != '&' {
			result = append(result, s[i])
			i++
			continue
		}

		end := i + 1
		for end < len(s) && end < i+12 && s[end] != ';' && s[end] != '&' && s[end] != '<' {
			end++
		}

		if end < len(s) && s[end] == ';' {
			entity := s[i+1 : end]
			if decoded, ok := decodeEntity(entity); ok {
				result = append(result, decoded...)
				i = end + 1
				continue
			}
		}

		result = append(result, s[i])
		i++
	}

	return string(result)
}

func containsAmp(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '&' {
			return true
		}
	}
	return false
}

func decodeEntity(entity string) (string, bool) {
	if entity == "" {
		return "", false
	}
	if entity[0] == '#' {
		return decodeNumericEntity(entity[1:])
	}
	if decoded, ok := namedEntities[entity]; ok {
		return decoded, true
	}
	return "", false
}

func decodeNumericEntity(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	var codePoint int64
	var err error
	if s[0] == 'x' || s[0] == 'X' {
		codePoint, err = strconv.ParseInt(s[1:], 16, 32)
	} else {
		codePoint, err = strconv.ParseInt(s, 10, 32)
	}
	if err != nil || codePoint <= 0 || codePoint > 0x10FFFF {
		return "", false
	}
	return string(rune(codePoint)), true
}

// namedEntities is the fixed subset of HTML5 named character references
// this engine recognizes: HTML4 Latin-1 plus the commonly used symbol,
// math, and arrow sets.
var namedEntities = map[string]string{
	"nbsp": " ",
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": "\"",
	"apos": "'",

	"copy": "©", "reg": "®", "trade": "™", "deg": "°", "plusmn": "±",
	"cent": "¢", "pound": "£", "euro": "€", "yen": "¥", "sect": "§",
	"para": "¶", "middot": "·", "bull": "•", "hellip": "…",
	"prime": "′", "Prime": "″",

	"ndash": "–", "mdash": "—", "lsquo": "'", "rsquo": "'",
	"ldquo": "“", "rdquo": "”", "sbquo": "‚", "bdquo": "„",
	"laquo": "«", "raquo": "»", "thinsp": " ", "ensp": " ", "emsp": " ",

	"times": "×", "divide": "÷", "minus": "−", "lowast": "∗",
	"le": "≤", "ge": "≥", "ne": "≠", "equiv": "≡", "asymp": "≈",
	"infin": "∞", "sum": "∑", "prod": "∏", "radic": "√", "part": "∂", "int": "∫",

	"larr": "←", "uarr": "↑", "rarr": "→", "darr": "↓", "harr": "↔",
	"lArr": "⇐", "uArr": "⇑", "rArr": "⇒", "dArr": "⇓", "hArr": "⇔",

	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"pi": "π", "sigma": "σ", "omega": "ω",
	"Alpha": "Α", "Beta": "Β", "Gamma": "Γ", "Delta": "Δ", "Pi": "Π", "Sigma": "Σ", "Omega": "Ω",

	"iexcl": "¡", "iquest": "¿", "loz": "◊",
	"spades": "♠", "clubs": "♣", "hearts": "♥", "diams": "♦",
}
