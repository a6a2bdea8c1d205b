package upload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUUID = "85e16d7b-58ed-43bc-8dce-7d3ff7d69f41"

// stubStore records every queried path and answers from a fixed set.
type stubStore struct {
	present map[string]bool
	queried []string
}

func (s *stubStore) Exists(ctx context.Context, path string) bool {
	s.queried = append(s.queried, path)
	return s.present[path]
}

func newValidator(t *testing.T, present map[string]bool) (*Validator, *stubStore) {
	t.Helper()
	store := &stubStore{present: present}
	return NewValidator(store, zap.NewNop()), store
}

func TestValidator_URLBypass(t *testing.T) {
	validator, store := newValidator(t, nil)

	ok := validator.Passes(context.Background(), "file", "https://example.com/file.pdf")

	assert.True(t, ok)
	assert.Empty(t, store.queried, "trusted URLs must not hit storage")
}

func TestValidator_URLRecognition(t *testing.T) {
	tests := []struct {
		name  string
		value string
		isURL bool
	}{
		{"https with path", "https://example.com/file.pdf", true},
		{"http with port", "http://localhost:8080/a", true},
		{"scheme without host", "file:///etc/passwd", false},
		{"bare file name", "invalid-uuid.jpg", false},
		{"relative path", "docs/file.pdf", false},
		{"scheme-relative", "//example.com/file.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isURL, isAbsoluteURL(tt.value))
		})
	}
}

func TestValidator_MalformedReference(t *testing.T) {
	validator, store := newValidator(t, nil)

	tests := []struct {
		name  string
		value string
	}{
		{"no uuid segment", "invalid-uuid.jpg"},
		{"empty value", ""},
		{"truncated uuid", "file_85e16d7b-58ed.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, validator.Passes(context.Background(), "file", tt.value))
		})
	}
	assert.Empty(t, store.queried, "malformed references must not hit storage")
}

func TestValidator_ExistenceGated(t *testing.T) {
	t.Run("present object accepted", func(t *testing.T) {
		validator, store := newValidator(t, map[string]bool{"tmp/" + testUUID: true})

		ok := validator.Passes(context.Background(), "file", "file-name_"+testUUID+".jpg")

		assert.True(t, ok)
		require.Len(t, store.queried, 1)
		assert.Equal(t, "tmp/"+testUUID, store.queried[0])
	})

	t.Run("absent object rejected", func(t *testing.T) {
		validator, store := newValidator(t, nil)

		ok := validator.Passes(context.Background(), "file", "file-name_"+testUUID+".jpg")

		assert.False(t, ok)
		require.Len(t, store.queried, 1)
		assert.Equal(t, "tmp/"+testUUID, store.queried[0])
	})
}

func TestValidator_CheckReasons(t *testing.T) {
	validator, _ := newValidator(t, map[string]bool{"tmp/" + testUUID: true})
	ctx := context.Background()

	tests := []struct {
		name       string
		value      string
		wantValid  bool
		wantReason Reason
	}{
		{"trusted url", "https://example.com/f.pdf", true, ReasonTrustedURL},
		{"present reference", "doc_" + testUUID + ".pdf", true, ReasonOK},
		{"malformed name", "invalid-uuid.jpg", false, ReasonMalformedName},
		{"missing object", "doc_11111111-2222-3333-4444-555555555555.pdf", false, ReasonObjectMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := validator.Check(ctx, "file", tt.value)
			assert.Equal(t, tt.wantValid, outcome.Valid)
			assert.Equal(t, tt.wantReason, outcome.Reason)
		})
	}
}

func TestValidator_ReusableAcrossCalls(t *testing.T) {
	validator, store := newValidator(t, map[string]bool{"tmp/" + testUUID: true})
	ctx := context.Background()

	assert.True(t, validator.Passes(ctx, "avatar", "a_"+testUUID+".png"))
	assert.False(t, validator.Passes(ctx, "contract", "nope.pdf"))
	assert.True(t, validator.Passes(ctx, "avatar", "b_"+testUUID+".png"))

	// One existence query per upload-reference call, none retained between.
	assert.Len(t, store.queried, 2)
}
