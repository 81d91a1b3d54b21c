package oracle

import "fmt"

// systemPrompt pins the model to the JSON contract parseRecord expects.
// Temperature 0 plus json_object response format keeps replies on it.
const systemPrompt = `You are an etymological lexicon. Given a word, reply with its ancestry as a single JSON object and nothing else.

Schema:
{
  "word": "<the word>",
  "language": "<language of this form>",
  "meaning": "<gloss, optional>",
  "era": "<rough period, optional>",
  "context": "<one-line note, optional>",
  "children": [<objects of the same schema for the forms this one derives from, oldest influences included>]
}

Rules:
- The root object is the searched word in its modern language.
- Children are the immediate earlier forms; their children go further back.
- Prefix reconstructed forms with an asterisk (for example "*nahts").
- Include borrowings and compounds as separate children.
- If the word has no recorded history, reply {"error": "not_found"}.
- Reply with JSON only. No prose, no code fences.`

// userPrompt asks for one word, capping how far back the tree may go.
func userPrompt(word string, maxDepth int) string {
	return fmt.Sprintf("Trace the etymology of %q. Go at most %d generations back.", word, maxDepth)
}
