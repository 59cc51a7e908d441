package answer

import (
	"fmt"
	"strings"

	"github.com/ternarybob/iuris/internal/models"
)

// systemPrompt instructs the model to answer strictly from the supplied
// context, in the language of the question.
const systemPrompt = `Du bist ein hilfreicher Assistent für Schweizer Rechtsdokumente und Vorschriften. Du antwortest präzise und sachlich basierend ausschliesslich auf dem bereitgestellten Kontext. Wenn die Antwort nicht im Kontext enthalten ist, sagst du das klar. Du kannst auf Deutsch, Französisch, Italienisch und Englisch antworten — antworte in der Sprache der Frage.`

// formatContext renders retrieved chunks as numbered context blocks.
func formatContext(retrieved []models.ScoredChunk) string {
	parts := make([]string, 0, len(retrieved))
	for i, scored := range retrieved {
		parts = append(parts, fmt.Sprintf("[%d] %s (Seite/Page %d):\n%s",
			i+1, scored.Document, scored.Page, scored.Text))
	}
	return strings.Join(parts, "\n\n")
}

// buildUserPrompt assembles the grounded question prompt.
func buildUserPrompt(question string, retrieved []models.ScoredChunk) string {
	return fmt.Sprintf(`Kontext aus Schweizer Dokumenten:

%s

Frage: %s

Bitte beantworte die Frage basierend auf dem obigen Kontext.`, formatContext(retrieved), question)
}
