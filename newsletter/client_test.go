package newsletter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientJSONPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "guest@example.com", body["email"])
		json.NewEncoder(w).Encode(Response{Success: false, Message: ErrAlreadySubscribed.Error()})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Subscribe(context.Background(), "guest@example.com")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, ErrAlreadySubscribed.Error(), resp.Message)
}

func TestClientFallsBackToFormPost(t *testing.T) {
	var formPosts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			atomic.AddInt32(&formPosts, 1)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "guest@example.com", r.PostForm.Get("email"))
			w.Write([]byte("opaque"))
			return
		}
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Subscribe(context.Background(), "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, Response{Success: true, Message: MessageSent}, resp)
	assert.Equal(t, int32(1), atomic.LoadInt32(&formPosts))
}

func TestClientUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(endpoint).Subscribe(context.Background(), "guest@example.com")
	assert.Error(t, err)
}
