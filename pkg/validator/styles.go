package validator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gnana997/uilint/pkg/styles"
)

// ValidateStyles checks styles extracted from a rendered UI against guide.
// Colors not in the guide and spacing off the 4px grid are reported once per
// distinct token, most frequent first, with the usage count in the message.
//
// A nil guide behaves as in Validate.
func ValidateStyles(s *styles.ExtractedStyles, guide *Guide) Result {
	if guide == nil {
		return Validate("", nil)
	}

	issues := []Issue{}
	if s == nil {
		return Result{Valid: true, Issues: issues}
	}

	if s.Colors != nil {
		for _, tc := range s.Colors.Sorted() {
			if guide.knows(tc.Token) {
				continue
			}
			issue := colorIssue(tc.Token, tc.Token, guide)
			issue.Message = fmt.Sprintf("Color %s is used %s but is not in the style guide", tc.Token, times(tc.Count))
			issues = append(issues, issue)
		}
	}

	if s.Spacing != nil {
		for _, tc := range s.Spacing.Sorted() {
			for _, px := range pixelPattern.FindAllStringSubmatch(tc.Token, -1) {
				n, err := strconv.ParseFloat(px[1], 64)
				if err != nil || math.Mod(n, 4) == 0 {
					continue
				}
				issue := spacingIssue(px[0], n, tc.Token)
				issue.Message = fmt.Sprintf("Spacing value %s is used %s and is not on the 4px grid", px[0], times(tc.Count))
				issues = append(issues, issue)
			}
		}
	}

	r := Result{Issues: issues}
	r.Valid = !r.HasErrors()
	return r
}

func times(n int) string {
	if n == 1 {
		return "once"
	}
	return fmt.Sprintf("%d times", n)
}
