package quality

import "regexp"

// fashionTerms is the fixed domain lexicon. The scorer counts distinct
// terms present in the body, so ordering here is cosmetic; membership is
// the contract and must not change between runs.
var fashionTerms = []string{
	// Clothing items
	"suit", "jacket", "blazer", "pants", "trousers", "shirt", "tie",
	"shoes", "boots", "sneakers", "loafers", "denim", "jeans", "chinos",
	"sweater", "cardigan", "coat", "overcoat", "dress", "skirt",

	// Style concepts
	"style", "fashion", "outfit", "wardrobe", "fit", "tailoring",
	"casual", "formal", "preppy", "classic", "modern", "vintage",
	"streetwear", "minimalist", "elegant", "sophisticated",

	// Colors and patterns
	"navy", "gray", "grey", "black", "brown", "khaki", "olive",
	"stripe", "plaid", "check", "pattern", "solid", "herringbone",

	// Materials and fabrics
	"cotton", "wool", "linen", "silk", "leather", "suede",
	"tweed", "flannel", "chambray", "oxford", "poplin", "canvas",

	// Fit and construction
	"slim", "regular", "relaxed", "tapered", "bespoke", "tailored",
	"custom", "off-the-rack", "made-to-measure", "selvedge", "raw",

	// Style advice terms
	"wear", "pair", "match", "coordinate", "accessorize",
	"layer", "combine", "look",
}

// advicePatterns detect imperative or advisory phrasing.
var advicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bhow to\b`),
	regexp.MustCompile(`\bshould\b`),
	regexp.MustCompile(`\bcan\b`),
	regexp.MustCompile(`\bwear\b.*\bwith\b`),
	regexp.MustCompile(`\bpair\b.*\bwith\b`),
	regexp.MustCompile(`\btry\b`),
	regexp.MustCompile(`\bconsider\b`),
	regexp.MustCompile(`\bavoid\b`),
	regexp.MustCompile(`\bchoose\b`),
	regexp.MustCompile(`\bopt for\b`),
	regexp.MustCompile(`\bmake sure\b`),
	regexp.MustCompile(`\bensure\b`),
	regexp.MustCompile(`\balways\b`),
	regexp.MustCompile(`\bnever\b`),
	regexp.MustCompile(`\brule\b`),
	regexp.MustCompile(`\btip\b`),
	regexp.MustCompile(`\bguide\b`),
	regexp.MustCompile(`\bessential\b`),
}

// stylePatterns detect descriptive adjective+noun terminology.
var stylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(slim|regular|relaxed|tapered|fitted)\s+(fit|cut)\b`),
	regexp.MustCompile(`\b(casual|formal|smart|business)\s+(wear|attire|dress|style)\b`),
	regexp.MustCompile(`\b(navy|black|brown|gray|grey)\s+(suit|jacket|pants|shoes)\b`),
}

var (
	listItemPattern = regexp.MustCompile(`(?m)^\s*[\d\-\*•]+\s+`)
	headerPattern   = regexp.MustCompile(`(?m)^[A-Z][^\n]{5,60}$`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)
