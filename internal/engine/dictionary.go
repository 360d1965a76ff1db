package engine

import (
	"strings"
	"unicode"
)

// Static RU/EN term tables. The original audience is Russian-speaking channel
// owners, so both alphabets appear throughout.

var stopWords = map[string]struct{}{
	// English
	"this": {}, "that": {}, "with": {}, "from": {}, "your": {}, "have": {},
	"будет": {}, "есть": {}, "been": {}, "were": {}, "they": {}, "them": {}, "then": {},
	"than": {}, "what": {}, "when": {}, "where": {}, "which": {}, "about": {},
	"there": {}, "their": {}, "more": {}, "most": {}, "some": {}, "only": {},
	"just": {}, "also": {}, "very": {}, "channel": {}, "official": {},
	// Russian
	"этот": {}, "это": {}, "того": {}, "тоже": {}, "только": {}, "если": {},
	"чтобы": {}, "когда": {}, "здесь": {}, "более": {}, "самый": {},
	"наш": {}, "ваш": {}, "как": {}, "для": {}, "все": {}, "всё": {},
	"или": {}, "его": {}, "она": {}, "они": {}, "оно": {}, "нас": {},
	"вас": {}, "них": {}, "при": {}, "под": {}, "над": {}, "про": {},
	"канал": {}, "канала": {}, "каналы": {}, "подписывайтесь": {},
	"самые": {}, "наши": {}, "ваши": {}, "который": {}, "которые": {},
}

// synonymTable expands a matched keyword into related search terms.
var synonymTable = map[string][]string{
	"финансы":    {"бизнес", "экономика", "инвестиции"},
	"finance":    {"business", "economy", "investment"},
	"крипта":     {"криптовалюта", "биткоин", "блокчейн"},
	"crypto":     {"cryptocurrency", "bitcoin", "blockchain"},
	"новости":    {"события", "сводка"},
	"news":       {"events", "headlines"},
	"технологии": {"гаджеты", "стартапы"},
	"tech":       {"technology", "gadgets", "startups"},
	"маркетинг":  {"реклама", "продвижение", "smm"},
	"marketing":  {"advertising", "promotion", "smm"},
	"обучение":   {"курсы", "образование"},
	"education":  {"courses", "learning"},
}

type category struct {
	name     string
	patterns []string
	queries  []string
}

// categories are matched by substring against title+description. Order is the
// discovery order of category queries, so keep it fixed.
var categories = []category{
	{
		name:     "tech",
		patterns: []string{"технолог", "программ", "разработ", "гаджет", "софт", "tech", "software", "developer", "coding", "it"},
		queries:  []string{"технологии", "программирование", "it новости"},
	},
	{
		name:     "business",
		patterns: []string{"бизнес", "предприним", "стартап", "финанс", "business", "startup", "finance", "entrepreneur"},
		queries:  []string{"бизнес", "предпринимательство", "финансы"},
	},
	{
		name:     "news",
		patterns: []string{"новост", "событи", "сводк", "news", "breaking", "daily"},
		queries:  []string{"новости", "события дня", "сводка новостей"},
	},
	{
		name:     "education",
		patterns: []string{"обучени", "образован", "курс", "лекци", "education", "learning", "course"},
		queries:  []string{"обучение", "образование", "курсы"},
	},
	{
		name:     "entertainment",
		patterns: []string{"развлечен", "юмор", "мем", "кино", "сериал", "fun", "meme", "movie", "entertainment"},
		queries:  []string{"развлечения", "юмор", "кино"},
	},
	{
		name:     "lifestyle",
		patterns: []string{"лайфстайл", "мода", "путешестви", "здоровь", "спорт", "lifestyle", "travel", "fitness", "health"},
		queries:  []string{"лайфстайл", "путешествия", "здоровье"},
	},
	{
		name:     "crypto",
		patterns: []string{"крипт", "биткоин", "блокчейн", "нфт", "crypto", "bitcoin", "blockchain", "nft", "defi"},
		queries:  []string{"криптовалюта", "биткоин", "блокчейн"},
	},
	{
		name:     "marketing",
		patterns: []string{"маркетинг", "реклам", "смм", "продвижени", "marketing", "smm", "advertising"},
		queries:  []string{"маркетинг", "smm", "реклама"},
	},
}

// defaultCategoryNames apply when nothing matches.
var defaultCategoryNames = []string{"news", "business"}

// tokenize splits text into lowercase word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// extractTerms pulls up to max distinct significant terms (longer than 3
// runes, not stop words) from text, in order of appearance.
func extractTerms(text string, max int) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0, max)

	for _, token := range tokenize(text) {
		if len([]rune(token)) <= 3 || isStopWord(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
		if len(terms) >= max {
			break
		}
	}
	return terms
}

// expandTerms grows the term list through the static synonym table, keeping
// first-seen order and capping the result at max.
func expandTerms(terms []string, max int) []string {
	seen := make(map[string]struct{})
	expanded := make([]string, 0, max)

	add := func(term string) {
		if len(expanded) >= max {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		expanded = append(expanded, term)
	}

	for _, term := range terms {
		add(term)
		for _, synonym := range synonymTable[term] {
			add(synonym)
		}
	}
	return expanded
}

// classifyCategories matches title+description against the category patterns.
// Channels matching nothing fall back to the default categories.
func classifyCategories(title, about string) []category {
	text := strings.ToLower(title + " " + about)

	matched := make([]category, 0, 2)
	for _, cat := range categories {
		for _, pattern := range cat.patterns {
			if strings.Contains(text, pattern) {
				matched = append(matched, cat)
				break
			}
		}
	}

	if len(matched) == 0 {
		for _, name := range defaultCategoryNames {
			for _, cat := range categories {
				if cat.name == name {
					matched = append(matched, cat)
				}
			}
		}
	}
	return matched
}
