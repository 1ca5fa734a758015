package styleguide

import "strings"

// Merge combines an existing guide with newly detected rules and returns a
// new guide; neither input is modified.
//
// Merge strategy, per category:
//   - Existing rules come first, in order, untouched. Existing always wins.
//   - A detected rule is appended only when nothing already in the result
//     collides with it. Colliding rules are dropped, never used to update.
//   - Collision keys: colors by name or value (values compared
//     case-insensitively), typography by element, spacing by name or value,
//     components by name.
//   - Detected rules are checked against the growing result, so within one
//     detected batch the first occurrence of a key wins.
//
// Merging the same detected batch twice changes nothing after the first time.
func Merge(existing, detected *StyleGuide) *StyleGuide {
	out := existing.Clone()
	if detected == nil {
		return out
	}

	for _, rule := range detected.Colors {
		if !hasColor(out.Colors, rule) {
			out.Colors = append(out.Colors, rule)
		}
	}
	for _, rule := range detected.Typography {
		if !hasTypography(out.Typography, rule) {
			out.Typography = append(out.Typography, rule)
		}
	}
	for _, rule := range detected.Spacing {
		if !hasSpacing(out.Spacing, rule) {
			out.Spacing = append(out.Spacing, rule)
		}
	}
	for _, rule := range detected.Components {
		if !hasComponent(out.Components, rule) {
			out.Components = append(out.Components, NewComponentRule(rule.Name, rule.Styles...))
		}
	}
	return out
}

func hasColor(rules []ColorRule, r ColorRule) bool {
	for _, e := range rules {
		if e.Name == r.Name || strings.EqualFold(e.Value, r.Value) {
			return true
		}
	}
	return false
}

func hasTypography(rules []TypographyRule, r TypographyRule) bool {
	for _, e := range rules {
		if e.Element == r.Element {
			return true
		}
	}
	return false
}

func hasSpacing(rules []SpacingRule, r SpacingRule) bool {
	for _, e := range rules {
		if e.Name == r.Name || e.Value == r.Value {
			return true
		}
	}
	return false
}

func hasComponent(rules []ComponentRule, r ComponentRule) bool {
	for _, e := range rules {
		if e.Name == r.Name {
			return true
		}
	}
	return false
}
