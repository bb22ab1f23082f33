package answer

import (
	"fmt"
	"strings"

	"github.com/podiumlabs/podium/internal/domain"
)

const talkSeparator = "\n\n---\n\n"

const promptTemplate = `You are a helpful assistant answering questions about General Conference talks.

Using ONLY the conference talks provided below, answer the following question. Cite which talks you draw from by mentioning the title and speaker.

Question: %s

Conference Talks:
%s`

// BuildPrompt composes the grounding prompt from the question and the
// retrieved talks. Composition is deterministic: talks appear in input order,
// numbered from 1.
func BuildPrompt(question string, talks []domain.ContextTalk) string {
	blocks := make([]string, len(talks))
	for i, talk := range talks {
		blocks[i] = fmt.Sprintf("Talk %d: \"%s\" by %s\n%s", i+1, talk.Title, talk.Speaker, talk.Text)
	}
	return fmt.Sprintf(promptTemplate, question, strings.Join(blocks, talkSeparator))
}
