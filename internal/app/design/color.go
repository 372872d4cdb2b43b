package design

import (
	"fmt"
	"strings"
)

// parseHex reads "#rrggbb" (or "rrggbb") into channel values.
func parseHex(hex string) (r, g, b int, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("not a 6-digit hex color: %q", hex)
	}
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("not a hex color: %q", hex)
	}
	return r, g, b, nil
}

func formatHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Tint lightens a hex color by moving each channel toward white by factor
// (0..1). Invalid input comes back unchanged.
func Tint(hex string, factor float64) string {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return hex
	}
	return formatHex(
		r+int(float64(255-r)*factor),
		g+int(float64(255-g)*factor),
		b+int(float64(255-b)*factor),
	)
}

// Shade darkens a hex color by moving each channel toward black by factor
// (0..1). Invalid input comes back unchanged.
func Shade(hex string, factor float64) string {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return hex
	}
	return formatHex(
		int(float64(r)*(1-factor)),
		int(float64(g)*(1-factor)),
		int(float64(b)*(1-factor)),
	)
}
