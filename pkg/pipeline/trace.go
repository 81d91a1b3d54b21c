package pipeline

import (
	"context"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/lineage"
)

// Trace fetches a word's ancestry through the tracer and normalizes the
// raw record into a canonical tree.
//
// The tracer owns fetching concerns (retries, its own response cache,
// depth and node clamping); this stage owns turning whatever it returns
// into a tree the layout strategies accept. Invalid forms inside the
// record are skipped with a warning rather than failing the trace, so a
// single malformed branch does not cost the user the whole lineage.
func Trace(ctx context.Context, tracer etymology.Tracer, opts Options) (*lineage.Tree, error) {
	if tracer == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no tracer configured")
	}

	record, err := tracer.Trace(ctx, opts.Word, opts.traceOptions())
	if err != nil {
		return nil, err
	}

	tree, err := lineage.Normalize(record, normalizeOptions(opts))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "normalize lineage for %q", opts.Word)
	}

	return tree, nil
}

// normalizeOptions bridges the structured logger into the normalizer's
// printf-style skip callback.
func normalizeOptions(opts Options) lineage.Options {
	normOpts := lineage.Options{}
	if opts.Logger != nil {
		logger := opts.Logger
		normOpts.Logger = func(format string, args ...any) {
			logger.Warnf(format, args...)
		}
	}
	return normOpts
}
