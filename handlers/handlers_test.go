package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawrescue/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", apperr.MissingField("description"), http.StatusBadRequest},
		{"bad coordinate", fmt.Errorf("check: %w", apperr.ErrInvalidCoordinate), http.StatusBadRequest},
		{"not found", fmt.Errorf("report 7: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"unauthorized", fmt.Errorf("login: %w", apperr.ErrUnauthorized), http.StatusUnauthorized},
		{"transient upload", fmt.Errorf("upload: %w", apperr.ErrUploadTransient), http.StatusBadGateway},
		{"analysis down", fmt.Errorf("analysis: %w", apperr.ErrTextAnalysisUnavailable), http.StatusServiceUnavailable},
		{"storage", fmt.Errorf("boom: %w", apperr.ErrStorage), http.StatusInternalServerError},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, fmt.Errorf("select failed on host db-3: %w", apperr.ErrStorage))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db-3")
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
		want    int64
	}{
		{"42", false, 42},
		{"abc", true, 0},
		{"0", true, 0},
		{"-3", true, 0},
		{"", true, 0},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}
		id, err := pathID(c, "id")
		if tt.wantErr {
			require.Error(t, err, "raw %q", tt.raw)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		}
	}
}
