package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest("POST", "/test", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "POST", entry.Data["method"])
	assert.Equal(t, "/test", entry.Data["path"])
	assert.Equal(t, http.StatusCreated, entry.Data["status"])
	assert.Equal(t, 5, entry.Data["bytes"])
	assert.Contains(t, entry.Data, "duration")
}

func TestLoggerServerErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRecoverer(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Internal server error","success":false}`, w.Body.String())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "test panic", hook.LastEntry().Data["panic"])
}

func TestRecovererAfterPartialWrite(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":`))
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":`, w.Body.String())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	logger, _ := test.NewNullLogger()

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))
	})
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedHeader string
	}{
		{
			name:           "API route",
			path:           "/api/test",
			expectedHeader: "application/json",
		},
		{
			name:           "Non-API route",
			path:           "/test",
			expectedHeader: "",
		},
		{
			name:           "Short path",
			path:           "/",
			expectedHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedHeader, w.Header().Get("Content-Type"))
		})
	}
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry, "posts")
	require.NoError(t, err)

	handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/a", "/b", "/missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.requestDuration))

	t.Run("unknown methods share one label", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(fmt.Sprintf("X%d", i), "/a", nil))
		}
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/a", nil))

		assert.Equal(t, float64(50), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("other", "200")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("PATCH", "200")))
		assert.Equal(t, 4, testutil.CollectAndCount(metrics.requestsTotal))
		assert.Equal(t, 3, testutil.CollectAndCount(metrics.requestDuration))
	})

	t.Run("registering twice fails", func(t *testing.T) {
		_, err := NewMetrics(registry, "posts")
		assert.Error(t, err)
	})
}

func TestMiddlewareChain(t *testing.T) {
	logger, hook := test.NewNullLogger()
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry, "posts")
	require.NoError(t, err)

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "panic") {
			panic("test panic")
		}
		w.WriteHeader(http.StatusOK)
	}), Logger(logger), metrics.Middleware(), Recoverer(logger), ContentTypeJSON)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "Normal API request",
			path:           "/api/test",
			expectedStatus: http.StatusOK,
			expectedType:   "application/json",
		},
		{
			name:           "Panic request",
			path:           "/api/panic",
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))

			last := hook.LastEntry()
			require.NotNil(t, last)
			assert.Equal(t, tt.expectedStatus, last.Data["status"])
		})
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "500")))
}
