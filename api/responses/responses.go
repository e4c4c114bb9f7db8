package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"github.com/jeevaraksha/hospital-api/pkg/logger"
)

// Writer emits the API's flat JSON bodies. Error payloads carry the shape
// {"error": "...", ...details}; success payloads are written as-is with no
// envelope. In production, causes of internal errors never leave the logs.
type Writer struct {
	logg       *logger.Logger
	production bool
}

// NewWriter builds the response writer shared by controllers and middleware.
func NewWriter(logg *logger.Logger, production bool) *Writer {
	return &Writer{logg: logg, production: production}
}

// JSON writes the payload verbatim with the given status.
func (wr *Writer) JSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

// Error maps err to its HTTP status and flat body, and logs the full chain
// including any Postgres driver detail.
func (wr *Writer) Error(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal && typed.Code() != pkgerrors.CodeDependency {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := map[string]any{"error": msg}
	if meta.DetailsAllowed {
		for key, value := range typed.Details() {
			if key == "error" {
				continue
			}
			payload[key] = value
		}
	}
	if !wr.production && typed.Code() == pkgerrors.CodeInternal {
		if cause := typed.Unwrap(); cause != nil {
			payload["message"] = cause.Error()
		}
	}

	if wr.logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = wr.logg.WithFields(ctx, map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			wr.logg.Error(ctx, "request.error", err)
		} else {
			wr.logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
