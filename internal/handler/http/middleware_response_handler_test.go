package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingWriter(rr *httptest.ResponseRecorder) *responseWriter {
	return &responseWriter{ResponseWriter: rr}
}

func TestResponseWriter_InitialState(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newRecordingWriter(rr)

	assert.Equal(t, 0, w.status)
	assert.Equal(t, 0, w.size)
	assert.False(t, w.wroteHeader)
	assert.Nil(t, w.body)
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name        string
		statusCodes []int
		wantStatus  int
	}{
		{name: "created", statusCodes: []int{http.StatusCreated}, wantStatus: http.StatusCreated},
		{name: "not found", statusCodes: []int{http.StatusNotFound}, wantStatus: http.StatusNotFound},
		{name: "server error", statusCodes: []int{http.StatusInternalServerError}, wantStatus: http.StatusInternalServerError},
		{
			name:        "second call is ignored",
			statusCodes: []int{http.StatusAccepted, http.StatusBadRequest},
			wantStatus:  http.StatusAccepted,
		},
		{
			name:        "third call is ignored too",
			statusCodes: []int{http.StatusOK, http.StatusCreated, http.StatusNotFound},
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newRecordingWriter(rr)

			for _, code := range tt.statusCodes {
				w.WriteHeader(code)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.True(t, w.wroteHeader)
		})
	}
}

func TestResponseWriter_Write(t *testing.T) {
	tests := []struct {
		name         string
		writes       [][]byte
		explicitCode int // 0 means no explicit WriteHeader
		wantStatus   int
		wantSize     int
		wantBody     []byte // the last write
	}{
		{
			name:       "single write defaults to 200",
			writes:     [][]byte{[]byte(`{"entries":[]}`)},
			wantStatus: http.StatusOK,
			wantSize:   14,
			wantBody:   []byte(`{"entries":[]}`),
		},
		{
			name:       "multiple writes accumulate size, body keeps the last chunk",
			writes:     [][]byte{[]byte("morning"), []byte(" pages")},
			wantStatus: http.StatusOK,
			wantSize:   13,
			wantBody:   []byte(" pages"),
		},
		{
			name:         "explicit status survives a write",
			writes:       [][]byte{[]byte(`{"id":"e-1"}`)},
			explicitCode: http.StatusCreated,
			wantStatus:   http.StatusCreated,
			wantSize:     12,
			wantBody:     []byte(`{"id":"e-1"}`),
		},
		{
			name:       "empty write still sends the header",
			writes:     [][]byte{{}},
			wantStatus: http.StatusOK,
			wantSize:   0,
			wantBody:   []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newRecordingWriter(rr)

			if tt.explicitCode != 0 {
				w.WriteHeader(tt.explicitCode)
			}

			for _, data := range tt.writes {
				_, err := w.Write(data)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantSize, w.size)
			assert.Equal(t, tt.wantBody, w.body)
			assert.Equal(t, tt.wantSize, rr.Body.Len())
		})
	}
}

func TestResponseWriter_ProxiesHeadersToUnderlying(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newRecordingWriter(rr)

	w.Header().Set("X-Trace-ID", "trace-1")
	w.WriteHeader(http.StatusNoContent)

	assert.Equal(t, "trace-1", rr.Header().Get("X-Trace-ID"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
