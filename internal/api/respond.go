package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/mhuisman/etymon/pkg/errors"
)

// maxBodyBytes caps request bodies; pipeline options are tiny.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields
// so typos in option names fail loudly instead of silently defaulting.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a pipeline or store error onto an HTTP status and a
// JSON body carrying the machine-readable code, the user-facing message
// and the request id. Rate-limit errors additionally set Retry-After.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)

	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		code = errors.ErrCodeRateLimited
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	status := statusForCode(code)
	if status >= 500 {
		s.logger.Error("request failed",
			"status", status,
			"code", code,
			"error", err,
			"request_id", RequestID(r.Context()),
		)
	}

	writeJSON(w, status, errorBody{
		Error: errorDetail{
			Code:      string(code),
			Message:   errors.UserMessage(err),
			RequestID: RequestID(r.Context()),
		},
	})
}

// statusForCode maps error codes onto HTTP statuses. Upstream fetch
// failures surface as gateway errors so clients can tell "you asked
// wrong" apart from "the oracle is down".
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidWord,
		errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidViewport,
		errors.ErrCodeInvalidTree,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupportedSurface:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeWordNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeMalformedResponse:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeCaptureRestricted:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
