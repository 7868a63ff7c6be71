// Package dtoforge is the runtime for generated transport bindings: a
// JSON request/response codec with validation and defaults, an error
// envelope, and generic collection rewrite helpers the generated
// conversion functions call.
package dtoforge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// maxBodySize caps request bodies at 10 MiB.
const maxBodySize = 10 << 20

var (
	validate     = validator.New(validator.WithRequiredStructEnabled())
	queryDecoder = schema.NewDecoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
	queryDecoder.SetAliasTag("json")
}

// errorResponse is the envelope for error responses.
type errorResponse struct {
	Error *Error `json:"error"`
}

// DecodeRequest decodes a request into a transport value: query
// parameters for GET and HEAD, a JSON body otherwise. Defaults from the
// value's default tags are applied to absent fields, then the value is
// validated against its validate tags.
func DecodeRequest[T any](r *http.Request) (T, error) {
	var v T
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if err := queryDecoder.Decode(&v, r.URL.Query()); err != nil {
			return v, Errorf(CodeInvalidArgument, "invalid query parameters: %v", err)
		}
	default:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return v, Errorf(CodeInvalidArgument, "failed to read request body: %v", err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &v); err != nil {
				return v, Errorf(CodeInvalidArgument, "invalid JSON body: %v", err)
			}
		}
	}
	if err := ApplyDefaults(&v); err != nil {
		return v, Errorf(CodeInternal, "failed to apply defaults: %v", err)
	}
	if err := validateValue(&v); err != nil {
		return v, Transform(err)
	}
	return v, nil
}

// validateValue runs struct validation when the value is a struct;
// other transport shapes carry no validate tags.
func validateValue(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(rv.Interface())
}

// EncodeJSON marshals a transport value to its wire form.
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return data, nil
}

// DecodeJSON unmarshals a wire form into a transport value.
func DecodeJSON[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode value: %w", err)
	}
	return v, nil
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent, nothing we can do. Log for debugging.
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// WriteError writes err as a JSON error envelope with the status its
// code maps to.
func WriteError(w http.ResponseWriter, err error) {
	svcErr := Transform(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.Code.HTTPStatus())
	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: svcErr}); encErr != nil {
		slog.Error("failed to encode error response",
			slog.String("code", string(svcErr.Code)),
			slog.String("message", svcErr.Message),
			slog.Any("error", encErr))
	}
}

// Post sends body to base/method as a JSON POST and returns the raw
// response body. Non-2xx responses are decoded into the error envelope
// when present, or mapped from the status code.
func Post(ctx context.Context, hc *http.Client, base, method string, body []byte) ([]byte, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	url := strings.TrimRight(base, "/") + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", method, err)
	}
	if resp.StatusCode >= 400 {
		var envelope errorResponse
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
			return nil, envelope.Error
		}
		return nil, Errorf(codeFromStatus(resp.StatusCode), "%s returned status %d", method, resp.StatusCode)
	}
	return data, nil
}
