// Package upload decides whether an upload-field value refers to an
// acceptable file: either a well-formed absolute URL, or an upload reference
// whose embedded identifier resolves to an existing temporary object.
package upload

import (
	"context"
	"net/url"

	"github.com/garyjia/upload-gatekeeper/internal/filename"
	"go.uber.org/zap"
)

// TempPathPrefix is where temporary uploads live, keyed by unique identifier.
const TempPathPrefix = "tmp/"

// TempObjectChecker is the narrow storage capability the validator consumes:
// report whether an object exists at a relative path.
type TempObjectChecker interface {
	Exists(ctx context.Context, path string) bool
}

// Reason tags why a validation attempt passed or failed.
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonTrustedURL    Reason = "trusted_url"
	ReasonMalformedName Reason = "malformed_name"
	ReasonObjectMissing Reason = "object_missing"
)

// Outcome is the result of a single validation attempt. The boolean is the
// contract; the reason is diagnostic detail for wrapping layers.
type Outcome struct {
	Valid  bool
	Reason Reason
}

// Validator validates upload-field values against temporary storage.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	store  TempObjectChecker
	logger *zap.Logger
}

// NewValidator creates a Validator backed by the given storage checker.
func NewValidator(store TempObjectChecker, logger *zap.Logger) *Validator {
	return &Validator{
		store:  store,
		logger: logger,
	}
}

// Check classifies value and returns a structured outcome. Absolute URLs are
// trusted without a storage round-trip. Anything else must parse as an
// upload reference and the referenced temporary object must exist; storage
// errors read as absent, so validation fails closed. At most one existence
// query is issued per call.
func (v *Validator) Check(ctx context.Context, field, value string) Outcome {
	if isAbsoluteURL(value) {
		return Outcome{Valid: true, Reason: ReasonTrustedURL}
	}

	parsed, err := filename.Parse(value)
	if err != nil {
		v.logger.Debug("Upload reference failed to parse",
			zap.String("field", field),
			zap.Error(err))
		return Outcome{Valid: false, Reason: ReasonMalformedName}
	}

	if !v.store.Exists(ctx, TempPathPrefix+parsed.UniqueID) {
		v.logger.Debug("Temporary object not found",
			zap.String("field", field),
			zap.String("unique_id", parsed.UniqueID))
		return Outcome{Valid: false, Reason: ReasonObjectMissing}
	}

	return Outcome{Valid: true, Reason: ReasonOK}
}

// Passes reports pass/fail only; all failure causes collapse to false.
func (v *Validator) Passes(ctx context.Context, field, value string) bool {
	return v.Check(ctx, field, value).Valid
}

// isAbsoluteURL reports whether value is a syntactically well-formed absolute
// URL. Both a scheme and a host are required, so bare file names never
// qualify.
func isAbsoluteURL(value string) bool {
	u, err := url.Parse(value)
	return err == nil && u.Scheme != "" && u.Host != ""
}
