package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valeod/internal/structures"
	"valeod/internal/testutil"
)

func newTestSink(baseURL string) Sink {
	conf := &structures.Config{
		Telegram: structures.TelegramConfig{
			BaseURL: baseURL,
			Token:   "12345:token",
		},
	}
	return NewTelegramSink(conf, &testutil.MockLogger{})
}

func TestTelegramSink_Send(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := newTestSink(srv.URL)
	err := s.Send(context.Background(), "-100200", "🐋 *WHALE ALERT!*")
	require.NoError(t, err)

	assert.Equal(t, "/bot12345:token/sendMessage", gotPath)
	assert.Equal(t, "-100200", gotBody.ChatID)
	assert.Equal(t, "🐋 *WHALE ALERT!*", gotBody.Text)
	assert.Equal(t, "Markdown", gotBody.ParseMode)
}

func TestTelegramSink_Send_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := newTestSink(srv.URL)
	err := s.Send(context.Background(), "-100200", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTelegramSink_Send_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := newTestSink(srv.URL)
	err := s.Send(context.Background(), "-100200", "hello")
	assert.Error(t, err)
}
