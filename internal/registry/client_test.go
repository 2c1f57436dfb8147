package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "linkgateway/pkg/domain"
	dErrors "linkgateway/pkg/domain-errors"
)

type observation struct {
	operation string
	status    int
}

type recordingObserver struct {
	calls []observation
}

func (o *recordingObserver) ObserveRegistryCall(operation string, status int, _ time.Duration) {
	o.calls = append(o.calls, observation{operation, status})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_SetsHeaders(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`"batch-1"`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/grp/", "secret-key", time.Second, discardLogger())

	t.Run("with body", func(t *testing.T) {
		resp, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).VerifyGTIN("07433200912010"))
		require.NoError(t, err)

		assert.True(t, resp.OK())
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, "/grp/v3.2/gtins/verified", got.URL.Path)
		assert.Equal(t, "secret-key", got.Header.Get("APIkey"))
		assert.Equal(t, "no-cache", got.Header.Get("Cache-Control"))
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.JSONEq(t, `["07433200912010"]`, string(gotBody))
	})

	t.Run("without body", func(t *testing.T) {
		_, err := c.Call(context.Background(), RoutesFor(id.APIVersionV31).QueryLinks("0123"))
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, got.Method)
		assert.Equal(t, "/grp/v3.1/links", got.URL.Path)
		assert.Equal(t, "0123", got.URL.Query().Get("identificationKey"))
		assert.Equal(t, "01", got.URL.Query().Get("identificationKeyType"))
		assert.Equal(t, "secret-key", got.Header.Get("APIkey"))
		assert.Empty(t, got.Header.Get("Content-Type"))
		assert.Empty(t, gotBody)
	})
}

func TestClient_MissingAPIKeySendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second, discardLogger())
	assert.False(t, c.APIKeyConfigured())

	_, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).BatchFeedback("b-1"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_NonSuccessIsAResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Invalid link type"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, "k", time.Second, discardLogger(), WithObserver(obs))

	resp, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).UpsertLinks([]any{map[string]any{"gtin": "1"}}))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Equal(t, "Invalid link type", resp.Body.Message())
	assert.Equal(t, []observation{{OpUpsertLinks, http.StatusUnprocessableEntity}}, obs.calls)
}

func TestClient_DoesNotFollowRedirects(t *testing.T) {
	var otherHits atomic.Int32
	var leakedKey atomic.Value
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		otherHits.Add(1)
		leakedKey.Store(r.Header.Get(HeaderAPIKey))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer other.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/elsewhere", http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, "secret-key", time.Second, discardLogger(), WithObserver(obs))

	resp, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).QueryLinks("07433200912010"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.Status)
	assert.False(t, resp.OK())
	assert.Equal(t, int32(0), otherHits.Load())
	assert.Nil(t, leakedKey.Load())
	assert.Equal(t, []observation{{OpQueryLinks, http.StatusTemporaryRedirect}}, obs.calls)
}

func TestClient_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream proxy error</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", time.Second, discardLogger())
	resp, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).QueryLinks("1"))
	require.NoError(t, err)

	assert.False(t, resp.Body.Parsed())
	assert.Error(t, resp.Body.ParseErr)
	assert.Equal(t, "<html>upstream proxy error</html>", resp.Body.RawText)
	assert.Equal(t, map[string]any{}, resp.Body.Value())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	c := New(url, "k", time.Second, discardLogger(), WithObserver(obs))
	_, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).QueryLinks("1"))
	require.Error(t, err)

	de, ok := dErrors.From(err)
	require.True(t, ok)
	assert.Equal(t, dErrors.CodeTransport, de.Code)
	assert.Equal(t, "Server error.", de.Message)
	assert.Equal(t, string(FailureUnreachable), de.Debug["category"])
	assert.NotContains(t, de.Error(), "APIkey")
	assert.Equal(t, []observation{{OpQueryLinks, 0}}, obs.calls)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, "k", 50*time.Millisecond, discardLogger())
	_, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).BatchFeedback("b"))
	require.Error(t, err)

	de, ok := dErrors.From(err)
	require.True(t, ok)
	assert.Equal(t, string(FailureTimeout), de.Debug["category"])
}

func TestClient_HonorsCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, "k", time.Second, discardLogger())
	_, err := c.Call(ctx, RoutesFor(id.APIVersionV32).BatchFeedback("b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	de, _ := dErrors.From(err)
	assert.Equal(t, string(FailureCanceled), de.Debug["category"])
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("no route to host")
}

func TestClient_UnencodableBody(t *testing.T) {
	c := New("http://registry.test", "k", time.Second, discardLogger(), WithHTTPClient(failingDoer{}))

	_, err := c.Call(context.Background(), RoutesFor(id.APIVersionV32).UpsertLinks(map[string]any{"bad": make(chan int)}))
	require.Error(t, err)
	de, _ := dErrors.From(err)
	assert.Equal(t, string(FailureBadRequest), de.Debug["category"])

	var unsupported *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}
