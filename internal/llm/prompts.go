package llm

import "fmt"

const hindiSystemPrompt = "You are creating language learning flashcards. Generate a natural, short Hindi sentence " +
	"that uses the target word exactly once and is easy for learners to understand. " +
	"Provide a natural-sounding English translation. Target word: %s"

const hindiUserPrompt = `Return STRICT JSON with keys word, hindi_sentence, english_sentence. Requirements:
- sentence length 5-12 words
- include the word exactly once, unmodified unless grammatical inflection is required
- keep language learner-friendly
- use Devanagari for Hindi.
Target word: %s`

const englishSystemPrompt = "You create English cloze deletions for learners who want to improve their English vocabulary."

const englishUserPrompt = `Return STRICT JSON with keys word, cloze_sentence, translation, hint.
Rules:
- Use Anki cloze syntax {{c1::...}} exactly once around the target word or phrase.
- If a hint is provided, include it using the built-in format {{c1::answer::hint}} so Anki can show a hint link.
- Sentence length 8-16 words.
- For the translation field, provide a concise English paraphrase or definition that clarifies the meaning of the sentence.
- Optional hint should help recall the word and can be null.
Target word: %s`

// HindiPrompts returns the system and user prompts for a Hindi sentence card
func HindiPrompts(word string) (system, user string) {
	return fmt.Sprintf(hindiSystemPrompt, word), fmt.Sprintf(hindiUserPrompt, word)
}

// EnglishClozePrompts returns the system and user prompts for an English cloze card
func EnglishClozePrompts(word string) (system, user string) {
	return englishSystemPrompt, fmt.Sprintf(englishUserPrompt, word)
}
