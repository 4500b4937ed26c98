// keywords.go — словари и функции разбора текста для эвристического
// анализатора: ключевые слова, категория, тип документа, тема.
package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// stopWords — частотные слова английского языка, исключаемые
// из ключевых слов.
var stopWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {}, "a": {}, "in": {}, "that": {}, "have": {}, "i": {},
	"it": {}, "for": {}, "not": {}, "on": {}, "with": {}, "he": {}, "as": {}, "you": {}, "do": {}, "at": {},
	"this": {}, "but": {}, "his": {}, "by": {}, "from": {}, "they": {}, "we": {}, "say": {}, "her": {}, "she": {},
	"or": {}, "an": {}, "will": {}, "my": {}, "one": {}, "all": {}, "would": {}, "there": {}, "their": {}, "what": {},
}

// categoryMarkers — маркеры категорий документов.
// Категория с наибольшим числом совпадений побеждает.
var categoryMarkers = map[string][]string{
	"technical":   {"code", "programming", "software", "data", "algorithm", "technical", "documentation"},
	"business":    {"report", "financial", "marketing", "strategy", "business", "proposal", "budget"},
	"academic":    {"research", "study", "analysis", "theory", "methodology", "experiment", "hypothesis"},
	"legal":       {"contract", "agreement", "law", "regulation", "policy", "compliance", "terms"},
	"medical":     {"patient", "clinical", "medical", "health", "diagnosis", "treatment", "healthcare"},
	"educational": {"course", "lecture", "lesson", "student", "education", "learning", "teaching"},
	"creative":    {"design", "art", "music", "video", "photo", "creative", "portfolio"},
	"scientific":  {"science", "physics", "chemistry", "biology", "mathematics", "lab", "experiment"},
}

// documentTypeMarkers — маркеры типа документа, проверяются по порядку,
// побеждает первый тип с совпадением.
var documentTypeMarkers = []struct {
	docType string
	markers []string
}{
	{"report", []string{"report", "analysis", "summary", "review"}},
	{"presentation", []string{"presentation", "slides", "deck"}},
	{"manual", []string{"manual", "guide", "documentation", "instructions"}},
	{"proposal", []string{"proposal", "pitch", "plan"}},
	{"form", []string{"form", "application", "questionnaire"}},
	{"paper", []string{"paper", "article", "publication", "journal"}},
	{"thesis", []string{"thesis", "dissertation", "research"}},
	{"contract", []string{"contract", "agreement", "terms"}},
	{"invoice", []string{"invoice", "bill", "receipt"}},
	{"resume", []string{"resume", "cv", "curriculum"}},
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// tokenize приводит текст к нижнему регистру, удаляет пунктуацию
// и разбивает на слова.
func tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	return strings.Fields(cleaned)
}

// extractKeywords возвращает до limit самых частотных слов текста
// длиннее трёх символов, не входящих в stopWords.
func extractKeywords(text string, limit int) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range tokenize(text) {
		if len(w) <= 3 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	// сортировка по частоте, при равенстве — по порядку появления
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// determineCategory выбирает категорию документа по числу совпадений
// маркеров в тексте. Без совпадений возвращается "document".
func determineCategory(text string) string {
	lower := strings.ToLower(text)
	best := "document"
	maxScore := 0
	// порядок обхода map недетерминирован, поэтому ключи сортируются
	names := make([]string, 0, len(categoryMarkers))
	for name := range categoryMarkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		score := 0
		for _, marker := range categoryMarkers[name] {
			if strings.Contains(lower, marker) {
				score++
			}
		}
		if score > maxScore {
			maxScore = score
			best = name
		}
	}
	return best
}

// determineDocumentType возвращает первый тип документа, маркер
// которого встречается в тексте. Без совпадений — "document".
func determineDocumentType(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range documentTypeMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(lower, marker) {
				return entry.docType
			}
		}
	}
	return "document"
}

// dominantTopic возвращает самую частотную пару соседних слов текста
// в виде "word1_word2" или пустую строку для короткого текста.
func dominantTopic(text string) string {
	words := tokenize(text)
	if len(words) < 2 {
		return ""
	}

	freq := make(map[string]int)
	var order []string
	for i := 0; i < len(words)-1; i++ {
		pair := words[i] + "_" + words[i+1]
		if freq[pair] == 0 {
			order = append(order, pair)
		}
		freq[pair]++
	}

	best := order[0]
	for _, pair := range order[1:] {
		if freq[pair] > freq[best] {
			best = pair
		}
	}
	return best
}
