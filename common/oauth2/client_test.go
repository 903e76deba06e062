package oauth2

import (
	"context"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_id") != "id" || r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":1799,"access_token":"tkn"}`))
	}))
	defer srv.Close()

	tr, err := NewClient(srv.URL, "id", "secret").ClientCredentials(context.Background())
	if assert.NoError(t, err) {
		assert.Equal(t, "tkn", tr.AccessToken)
		assert.Equal(t, 1799, tr.ExpiresIn)
	}

	_, err = NewClient(srv.URL, "id", "wrong").ClientCredentials(context.Background())
	assert.ErrorContains(t, err, "401")
}
