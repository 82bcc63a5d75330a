package webview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// DefaultLanguage is used until detection finds something better.
const DefaultLanguage = "typescript"

// minDetectLen is the trimmed length below which detection is not attempted.
const minDetectLen = 10

// minRelevance is the score a candidate needs before it is reported. One
// keyword is enough.
const minRelevance = 2

// detectCandidates are the lexers scored by DetectLanguage. The review API
// only accepts these languages.
var detectCandidates = []string{"python", "typescript", "javascript"}

// DetectLanguage guesses the language of code among the languages the review
// API accepts. It returns "" when the text is too short, nothing scores high
// enough, or Python and TypeScript tie.
func DetectLanguage(code string) string {
	if len(strings.TrimSpace(code)) <= minDetectLen {
		return ""
	}

	best, bestScore, tied := "", 0, false
	for _, name := range detectCandidates {
		lexer := lexers.Get(name)
		if lexer == nil {
			continue
		}
		lang := normalizeLanguage(lexer.Config().Name)
		score := relevance(lexer, code)
		switch {
		case score > bestScore:
			best, bestScore, tied = lang, score, false
		case score == bestScore && lang != best:
			tied = true
		}
	}

	if tied || bestScore < minRelevance {
		return ""
	}
	return best
}

// relevance scores how well lexer understands code: keywords count double,
// builtins once, and tokens the lexer cannot match count against it.
func relevance(lexer chroma.Lexer, code string) int {
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return 0
	}

	score := 0
	for _, tok := range it.Tokens() {
		switch {
		case tok.Type == chroma.Error:
			score -= 2
		case tok.Type.InCategory(chroma.Keyword):
			score += 2
		case tok.Type == chroma.NameBuiltin, tok.Type == chroma.NameBuiltinPseudo:
			score++
		}
	}
	return score
}

// normalizeLanguage maps a lexer name onto the language ids the review API
// accepts. JavaScript is reviewed as TypeScript.
func normalizeLanguage(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "plaintext", "fallback":
		return ""
	case "javascript", "js":
		return "typescript"
	case "python 2", "python3":
		return "python"
	}
	return name
}
