package styles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Three leading integer channels of rgb()/rgba(), comma or space separated.
	rgbPattern = regexp.MustCompile(`(?i)^rgba?\(\s*(\d+)[\s,]+(\d+)[\s,]+(\d+)\s*(?:[,/]\s*([\d.]+%?))?`)

	hexPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

	zeroLengthPattern = regexp.MustCompile(`^[+-]?0*\.?0*(px|em|rem|%|vh|vw|pt|ch|ex)?$`)
)

// NormalizeColor converts a CSS color value to uppercase #RRGGBB.
// The second return value is false for transparent or unparsable values.
func NormalizeColor(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "transparent") {
		return "", false
	}

	if strings.HasPrefix(v, "#") {
		m := hexPattern.FindStringSubmatch(v)
		if m == nil {
			return "", false
		}
		hex := strings.ToUpper(m[1])
		switch len(hex) {
		case 3:
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		case 8:
			if hex[6:] == "00" {
				return "", false
			}
			hex = hex[:6]
		}
		return "#" + hex, true
	}

	m := rgbPattern.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	if m[4] != "" && isZeroAlpha(m[4]) {
		return "", false
	}

	var channels [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return "", false
		}
		channels[i] = clampChannel(n)
	}
	return RGBToHex(channels[0], channels[1], channels[2]), true
}

// RGBToHex formats three channels as uppercase #RRGGBB. Channels are
// clamped to 0–255.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(r), clampChannel(g), clampChannel(b))
}

// HexToRGB parses #RRGGBB (case-insensitive) into its channels.
func HexToRGB(hex string) (r, g, b int, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(n >> 16 & 0xFF), int(n >> 8 & 0xFF), int(n & 0xFF), true
}

func clampChannel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func isZeroAlpha(a string) bool {
	a = strings.TrimSuffix(a, "%")
	f, err := strconv.ParseFloat(a, 64)
	return err == nil && f == 0
}

// NormalizeFontFamily returns the first family of a font stack with quotes
// stripped.
func NormalizeFontFamily(value string) string {
	primary, _, _ := strings.Cut(value, ",")
	primary = strings.TrimSpace(primary)
	return strings.NewReplacer(`"`, "", `'`, "").Replace(primary)
}

// IsNoop reports whether a token carries no style information and must
// not be counted: empty, "normal", "auto" or a zero length.
func IsNoop(token string) bool {
	t := strings.TrimSpace(token)
	if t == "" {
		return true
	}
	switch strings.ToLower(t) {
	case "normal", "auto":
		return true
	}
	return isZeroLength(t)
}

func isZeroLength(t string) bool {
	if !zeroLengthPattern.MatchString(strings.ToLower(t)) {
		return false
	}
	// The pattern also accepts bare units and dots; require at least one zero digit.
	return strings.ContainsRune(t, '0')
}
