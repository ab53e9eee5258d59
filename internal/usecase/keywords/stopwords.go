package keywords

// stopWords is the curated set of tokens that carry no retrieval signal:
// English function words plus domain filler that appears in nearly every
// question asked of a university assistant.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		// articles, auxiliaries, modals
		"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "must", "shall", "can", "need", "dare",
		"ought", "used", "am",
		// pronouns and determiners
		"what", "which", "who", "whom", "this", "that", "these", "those",
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
		"you", "your", "yours", "yourself", "yourselves",
		"he", "him", "his", "himself", "she", "her", "hers", "herself",
		"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
		// conjunctions and prepositions
		"and", "but", "or", "nor", "for", "yet", "so", "as", "at", "by",
		"from", "in", "into", "of", "off", "on", "onto", "out", "over",
		"to", "up", "with", "about", "after", "against", "before",
		"between", "during", "through",
		// question words and quantifiers
		"how", "when", "where", "why", "all", "each", "every", "both",
		"few", "more", "most", "other", "some", "such", "only", "own",
		"same", "than", "too", "very", "just", "also", "now", "here",
		"there", "then",
		// domain filler
		"university", "college", "please", "tell", "want", "know", "give",
		"get", "find", "looking", "information", "details", "apply",
		"application",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}
