// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scope

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// ratio returns a normalized edit-distance similarity in [0, 1].
func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, metrics.NewLevenshtein())
}

// partialRatio returns the best ratio between the shorter string and any
// equal-length window of the longer one, so a short hint like "diffusion
// models" can score highly against a full abstract that contains it.
func partialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return ratio(string(shorter), string(longer))
	}

	needle := string(shorter)
	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if s := ratio(needle, window); s > best {
			best = s
			if best == 1.0 {
				break
			}
		}
	}
	return best
}
