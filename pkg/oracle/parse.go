package oracle

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
)

// parseRecord decodes completion content into a raw etymology record.
//
// Content must be a single JSON object: either the record schema or the
// explicit {"error": "not_found"} marker. Anything else, including prose
// and records missing identity fields, is a malformed response. Models
// sometimes wrap replies in code fences despite instructions, so those
// are stripped first.
func parseRecord(word, content string) (*etymology.Node, error) {
	content = stripFences(content)
	if content == "" {
		return nil, errors.New(errors.ErrCodeMalformedResponse, "empty completion content")
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &probe); err == nil && probe.Error != "" {
		return nil, errors.New(errors.ErrCodeWordNotFound, "no recorded lineage for %q", word)
	}

	var root etymology.Node
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedResponse, err, "unparseable lineage record")
	}
	if !root.Valid() {
		return nil, errors.New(errors.ErrCodeMalformedResponse, "lineage record missing word or language")
	}
	return &root, nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(s, "{") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
