package summarizer

import "github.com/nguyentantai21042004/tubedigest/internal/models"

type promptSet struct {
	system  string
	label   string
	prompts map[models.SummaryKind]string
}

var promptSets = map[string]promptSet{
	"pl": {
		system: "You are a helpful assistant that creates high-quality summaries of video transcripts in Polish. " +
			"Process the ENTIRE transcript provided and maintain important details.",
		label: "TRANSKRYPT",
		prompts: map[models.SummaryKind]string{
			models.SummaryConcise: "Podsumuj poniższy transkrypt w 3-5 zdaniach. Zachowaj GŁÓWNĄ MYŚL i kluczowe punkty. " +
				"Bądź bardzo krótki i bezpośredni.",
			models.SummaryNormal: "Podsumuj poniższy transkrypt w ~300-500 słów. Zachowaj strukturę: " +
				"Intro → Główne punkty → Wnioski. Używaj bullet points dla czytelności.",
			models.SummaryDetailed: "Podsumuj poniższy transkrypt w ~800-1000 słów. Zachowaj wszystkie ważne punkty, " +
				"cytaty i przykłady. Strukturalizuj: Abstrakt → Sekcje → Analiza → Wnioski.",
		},
	},
	"en": {
		system: "You are a helpful assistant that creates high-quality summaries of video transcripts in English. " +
			"Process the ENTIRE transcript provided and maintain important details.",
		label: "TRANSCRIPT",
		prompts: map[models.SummaryKind]string{
			models.SummaryConcise: "Summarize the transcript below in 3-5 sentences. Keep the MAIN IDEA and key points. " +
				"Be very brief and direct.",
			models.SummaryNormal: "Summarize the transcript below in ~300-500 words. Keep the structure: " +
				"Intro → Main points → Conclusions. Use bullet points for readability.",
			models.SummaryDetailed: "Summarize the transcript below in ~800-1000 words. Keep all important points, " +
				"quotes and examples. Structure it as: Abstract → Sections → Analysis → Conclusions.",
		},
	},
}

var tokenBudgets = map[models.SummaryKind]int{
	models.SummaryConcise:  500,
	models.SummaryNormal:   1500,
	models.SummaryDetailed: 3000,
}

// buildRequest picks the template and budget for kind. Unknown languages use
// Polish; kind must already be normalized.
func buildRequest(language string, kind models.SummaryKind, text string) Request {
	set, ok := promptSets[language]
	if !ok {
		set = promptSets["pl"]
	}
	return Request{
		System:    set.system,
		Prompt:    set.prompts[kind],
		Label:     set.label,
		Text:      text,
		MaxTokens: tokenBudgets[kind],
	}
}
