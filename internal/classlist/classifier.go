// Package classlist holds the utility-class rules: which tokens belong to the
// utility vocabulary, which strings look like class lists, and how a class
// list is rewritten with a prefix.
package classlist

import "strings"

// utilityPrefixes is the fixed category table. Membership is a plain
// starts-with test, so order carries no meaning.
var utilityPrefixes = []string{
	// Layout
	"container",
	"box-",
	"block",
	"inline",
	"flex",
	"grid",
	"hidden",
	"static",
	"fixed",
	"absolute",
	"relative",
	"sticky",

	// Flex and grid items
	"basis-",
	"flex-",
	"grow",
	"shrink",
	"order-",
	"gap-",
	"justify-",
	"items-",
	"content-",

	// Spacing
	"p-",
	"m-",
	"space-x-",
	"space-y-",

	// Sizing
	"w-",
	"h-",
	"min-w-",
	"max-w-",
	"size-",

	// Typography
	"text-",
	"font-",
	"leading-",
	"tracking-",
	"line-clamp-",
	"uppercase",
	"lowercase",
	"truncate",

	// Color and borders
	"bg-",
	"from-",
	"via-",
	"to-",
	"border",
	"rounded",
	"ring-",
	"divide-",
	"shadow",
	"opacity-",

	// Effects and motion
	"mix-blend-",
	"blur-",
	"invert",
	"saturate-",
	"sepia",
	"animate-",
	"transition",
	"duration-",
	"scale-",
	"rotate-",
	"translate-",
	"skew-",

	// Interaction
	"cursor-",
	"pointer-events-",
	"scroll-",
	"touch-",

	// SVG
	"fill-",
	"stroke-",

	// Positioning
	"top-",
	"bottom-",
	"left-",
	"right-",
	"inset-",
}

// IsUtilityToken reports whether body (a token with its variant chain already
// removed) belongs to the utility vocabulary. A single leading "-" marks a
// negative value and is ignored.
func IsUtilityToken(body string) bool {
	body = strings.TrimPrefix(body, "-")
	for _, p := range utilityPrefixes {
		if strings.HasPrefix(body, p) {
			return true
		}
	}
	return false
}
