package lineage

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mhuisman/etymon/pkg/etymology"
)

// Options configures normalization behavior.
type Options struct {
	Logger func(string, ...any) // Skip/warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Normalize flattens a raw etymology record into a canonical [Tree].
//
// The walk is depth-first pre-order with children in input order. A record
// missing its word or language is invalid: it is skipped together with its
// entire subtree, the skip is logged, and the walk continues with the next
// sibling. Sibling indices count only surviving siblings.
//
// Returns ErrNilRoot for a nil record, ErrInvalidRoot when the root itself
// is invalid, and ErrDuplicateNodeID if two nodes collide on an identifier
// (impossible unless the traversal is broken, hence fail fast).
func Normalize(root *etymology.Node, opts Options) (*Tree, error) {
	opts = opts.WithDefaults()

	if root == nil {
		return nil, ErrNilRoot
	}
	if !root.Valid() {
		return nil, ErrInvalidRoot
	}

	t := &Tree{
		nodes:  make(map[string]*Node),
		depths: make(map[int][]*Node),
	}

	if err := addSubtree(t, root, "", 0, 0, opts); err != nil {
		return nil, err
	}
	t.rootID = t.order[0]

	if t.Shallow() {
		opts.Logger("shallow tree: %q has no recorded ancestry", root.Word)
	}
	return t, nil
}

// addSubtree adds the record and its valid descendants to the tree.
func addSubtree(t *Tree, rec *etymology.Node, parentID string, depth, siblingIndex int, opts Options) error {
	id := NodeID(rec.Word, rec.Language, depth, siblingIndex)
	if _, exists := t.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}

	node := &Node{
		ID:           id,
		Word:         strings.TrimSpace(rec.Word),
		Language:     strings.TrimSpace(rec.Language),
		Meaning:      rec.Meaning,
		Era:          rec.Era,
		Context:      rec.Context,
		Family:       Classify(rec.Language),
		Depth:        depth,
		SiblingIndex: siblingIndex,
		ParentID:     parentID,
	}
	t.nodes[id] = node
	t.order = append(t.order, id)
	t.depths[depth] = append(t.depths[depth], node)

	next := 0
	for _, child := range rec.Children {
		if !child.Valid() {
			opts.Logger("skipping invalid record under %q (missing word or language), subtree dropped", node.Word)
			continue
		}
		childID := NodeID(child.Word, child.Language, depth+1, next)
		node.ChildIDs = append(node.ChildIDs, childID)
		if err := addSubtree(t, child, id, depth+1, next, opts); err != nil {
			return err
		}
		next++
	}
	return nil
}

// NodeID builds the deterministic identifier for a node:
// {word}-{language}-{depth}-{siblingIndex} on slugified word and language.
func NodeID(word, language string, depth, siblingIndex int) string {
	return fmt.Sprintf("%s-%s-%d-%d", slug(word), slug(language), depth, siblingIndex)
}

// slug lowercases the label and collapses every run of non-letter,
// non-digit runes into a single hyphen. Reconstructed forms ("*nahts")
// lose their asterisk; non-Latin scripts pass through untouched.
func slug(s string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "x"
	}
	return out
}
