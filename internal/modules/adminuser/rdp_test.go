package adminuser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/issa-plus/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRDPClientDisabledWithoutEndpoint(t *testing.T) {
	assert.Nil(t, NewRDPClient(config.RDPOptions{}))
	assert.Nil(t, NewRDPClient(config.RDPOptions{Endpoint: "   "}))
}

func TestRDPClientAddToGroups(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewRDPClient(config.RDPOptions{Endpoint: srv.URL + "/", Token: "secret"})
	require.NotNil(t, c)

	err := c.AddToGroups(context.Background(), "ivanov", []string{"Office", "VPN"})
	require.NoError(t, err)

	assert.Equal(t, "/groups/members", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "ivanov", gotBody["username"])
}

func TestRDPClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRDPClient(config.RDPOptions{Endpoint: srv.URL})
	err := c.RemoveUser(context.Background(), "ivanov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
