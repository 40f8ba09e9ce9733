package memory

import (
	"fmt"
	"strings"

	"github.com/accordia/accordia-backend/internal/models"
)

const (
	rolePlaintiff = "PLAINTIFF"
	roleDefendant = "DEFENDANT"
)

// emptyConversationSummary is the only canned summary this package ever
// produces: the degenerate case where there is nothing to summarize.
const emptyConversationSummary = "No conversation has taken place yet."

// renderMessage formats one message as "[ROLE] Name: content". The sender is
// the plaintiff when it matches the dispute's originating party.
func renderMessage(dispute *models.Dispute, msg models.Message) string {
	role := roleDefendant
	name := dispute.DefendantName
	if msg.SenderID == dispute.PlaintiffID {
		role = rolePlaintiff
		name = dispute.PlaintiffName
	}
	return fmt.Sprintf("[%s] %s: %s", role, name, msg.Content)
}

// renderTranscript joins rendered messages with blank lines, chronological
// order assumed.
func renderTranscript(dispute *models.Dispute, messages []models.Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, renderMessage(dispute, msg))
	}
	return strings.Join(parts, "\n\n")
}

// buildSummaryPrompt constructs the single prompt sent to the oracle for a
// batch of messages.
func buildSummaryPrompt(dispute *models.Dispute, messages []models.Message) string {
	return fmt.Sprintf(`You are assisting with the mediation of a dispute titled %q between %s (PLAINTIFF) and %s (DEFENDANT).

Summarize the following conversation between the parties.

%s

Pay particular attention to:
- Factual claims made by either party
- Evidence mentioned or referenced
- Offers and settlement proposals
- The emotional tone of the exchange
- Progress toward resolution

Respond with a JSON object with exactly these fields:
{
  "summary": "a 2-3 paragraph prose summary of the conversation",
  "keyPoints": ["up to 5 key points, most important first"],
  "agreements": ["points the parties appear to agree on"],
  "disagreements": ["points still contested"],
  "tone": "one of: cooperative, adversarial, neutral, improving, mixed",
  "progress": "a brief assessment of progress toward resolution"
}`,
		dispute.Title, dispute.PlaintiffName, dispute.DefendantName,
		renderTranscript(dispute, messages))
}
