package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mhuisman/etymon/pkg/buildinfo"
	"github.com/mhuisman/etymon/pkg/cache"
	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/pipeline"
	"github.com/mhuisman/etymon/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type traceResponse struct {
	Word     string          `json:"word"`
	TreeHash string          `json:"tree_hash"`
	Nodes    int             `json:"nodes"`
	Depth    int             `json:"depth"`
	Cached   bool            `json:"cached"`
	Tree     json.RawMessage `json:"tree"`
}

// handleTrace runs only the trace stage: fetch the lineage and return
// the normalized tree without computing a layout.
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, hit, err := s.runner.TraceWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := tree.ToJSON()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeEncoding, err, "serialize tree"))
		return
	}

	writeJSON(w, http.StatusOK, traceResponse{
		Word:     tree.Root().Word,
		TreeHash: cache.Hash(data),
		Nodes:    tree.NodeCount(),
		Depth:    tree.MaxDepth(),
		Cached:   hit,
		Tree:     data,
	})
}

type layoutResponse struct {
	Word     string          `json:"word"`
	TreeHash string          `json:"tree_hash"`
	Mode     string          `json:"mode"`
	Layout   json.RawMessage `json:"layout"`
	Cached   stageHits       `json:"cached"`
}

type stageHits struct {
	Trace  bool `json:"trace"`
	Layout bool `json:"layout"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.runLayout(w, r, opts)
}

// handleLayoutQuery serves the same computation as handleLayout but
// takes options from the query string, so a layout is one curl away.
func (s *Server) handleLayoutQuery(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.runLayout(w, r, opts)
}

func (s *Server) runLayout(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	ctx := r.Context()

	tree, traceHit, err := s.runner.TraceWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, layoutHit, err := s.runner.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	treeData, err := tree.ToJSON()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeEncoding, err, "serialize tree"))
		return
	}
	layoutData, err := res.ToJSON()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeEncoding, err, "serialize layout"))
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Word:     tree.Root().Word,
		TreeHash: cache.Hash(treeData),
		Mode:     res.Mode,
		Layout:   layoutData,
		Cached:   stageHits{Trace: traceHit, Layout: layoutHit},
	})
}

// optionsFromQuery builds pipeline options from URL parameters. Only
// scalar knobs are exposed here; callers needing format lists or node
// geometry POST an options body instead.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Word:      q.Get("word"),
		Mode:      q.Get("mode"),
		Model:     q.Get("model"),
		Weighting: q.Get("weighting"),
		Tooltips:  q.Get("tooltips"),
	}

	for key, dst := range map[string]*int{
		"max_depth":  &opts.MaxDepth,
		"max_nodes":  &opts.MaxNodes,
		"iterations": &opts.Iterations,
	} {
		if raw := q.Get(key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, raw)
			}
			*dst = n
		}
	}

	for key, dst := range map[string]*float64{
		"width":  &opts.Width,
		"height": &opts.Height,
		"scale":  &opts.Scale,
	} {
		if raw := q.Get(key); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, raw)
			}
			*dst = f
		}
	}

	if raw := q.Get("seed"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed: %q", raw)
		}
		opts.Seed = n
	}

	for key, dst := range map[string]*bool{
		"refresh": &opts.Refresh,
		"dark":    &opts.Dark,
	} {
		if raw := q.Get(key); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, raw)
			}
			*dst = b
		}
	}

	return opts, nil
}

type exportResponse struct {
	Word      string            `json:"word"`
	Mode      string            `json:"mode"`
	TreeHash  string            `json:"tree_hash"`
	Artifacts map[string][]byte `json:"artifacts"`
	Cached    cacheHits         `json:"cached"`
}

type cacheHits struct {
	Trace  bool `json:"trace"`
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

// handleExport runs the full pipeline. A single requested format comes
// back as the raw artifact with its content type; multiple formats come
// back as one JSON envelope with base64 artifact bodies.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	word := result.Tree.Root().Word
	if len(opts.Formats) == 1 {
		f, err := render.ParseFormat(opts.Formats[0])
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", f.MIME())
		w.Header().Set("Content-Disposition",
			`attachment; filename="`+render.Filename(word, opts.Mode, f)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[opts.Formats[0]])
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		Word:      word,
		Mode:      opts.Mode,
		TreeHash:  result.TreeHash,
		Artifacts: result.Artifacts,
		Cached: cacheHits{
			Trace:  result.CacheInfo.TraceHit,
			Layout: result.CacheInfo.LayoutHit,
			Render: result.CacheInfo.RenderHit,
		},
	})
}

type modeInfo struct {
	Name    string `json:"name"`
	Engine  string `json:"engine"`
	Default bool   `json:"default,omitempty"`
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := make([]modeInfo, 0, len(layout.Modes())+1)
	for _, m := range layout.Modes() {
		modes = append(modes, modeInfo{
			Name:    m,
			Engine:  "geometric",
			Default: m == pipeline.DefaultMode,
		})
	}
	modes = append(modes, modeInfo{Name: layout.ModeDot, Engine: "graphviz"})
	writeJSON(w, http.StatusOK, map[string][]modeInfo{"modes": modes})
}
