package scoring

import "regexp"

// Heuristic lexicons and patterns. Matching is case-insensitive substring
// over lowercased text unless a regexp is given.

var riskKeywords = []string{
	"hack", "exploit", "bypass", "jailbreak", "ignore instructions",
	"violence", "harmful", "illegal", "discriminatory", "bias",
	"personal information", "private data", "confidential",
}

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ignore.*previous.*instructions`),
	regexp.MustCompile(`forget.*everything.*above`),
	regexp.MustCompile(`new.*instructions.*follow`),
	regexp.MustCompile(`system.*prompt.*override`),
}

var biasAbsolutes = []string{
	"always", "never", "all", "none", "every", "typical",
	"naturally", "obviously", "clearly", "definitely",
}

var genderBiasPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(he|she)\s+(always|never|typically)`),
	regexp.MustCompile(`\b(men|women)\s+(are|tend to|usually)`),
	regexp.MustCompile(`\b(male|female)\s+(dominated|oriented)`),
}

var (
	racialTerms     = []string{"race", "ethnic", "cultural", "nationality"}
	stereotypeWords = []string{"typical", "characteristic", "natural", "inherent"}
)

var toxicKeywords = []string{
	"hate", "stupid", "idiot", "moron", "disgusting",
	"terrible", "awful", "horrible", "pathetic", "worthless",
}

var aggressivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(you\s+are|you're)\s+(wrong|stupid|crazy)`),
	regexp.MustCompile(`\b(shut\s+up|go\s+away|get\s+lost)`),
	regexp.MustCompile(`\b(i\s+hate|i\s+despise|i\s+can't\s+stand)`),
}

var inclusiveIndicators = []string{
	"everyone", "all people", "regardless of", "inclusive",
	"diverse", "equitable", "fair", "balanced",
}

var exclusiveIndicators = []string{
	"only", "just", "merely", "simply", "obviously",
	"naturally", "of course", "clearly",
}

var positiveWords = []string{
	"good", "great", "excellent", "helpful", "positive", "beneficial",
	"effective", "valuable", "success", "improve", "best", "happy",
}

var negativeWords = []string{
	"bad", "poor", "terrible", "harmful", "negative", "useless",
	"ineffective", "failure", "worse", "worst", "awful", "sad",
}
