package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	mu           sync.Mutex
	registered   []api.AgentServiceRegistration
	deregistered []string
}

func (a *fakeAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case r.URL.Path == "/v1/agent/service/register":
		var reg api.AgentServiceRegistration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		a.registered = append(a.registered, reg)
	case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
		a.deregistered = append(a.deregistered, strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestConsulRegistry(t *testing.T) {
	agent := &fakeAgent{}
	server := httptest.NewServer(agent)
	t.Cleanup(server.Close)

	logger := zerolog.Nop()
	reg, err := NewConsulRegistry(strings.TrimPrefix(server.URL, "http://"), &logger)
	require.NoError(t, err)

	err = reg.Register(Service{
		ID:        "auth-service-1",
		Name:      "auth-service",
		Address:   "10.0.0.5",
		Port:      5000,
		HealthURL: "http://10.0.0.5:5000/healthz",
	})
	require.NoError(t, err)

	require.Len(t, agent.registered, 1)
	got := agent.registered[0]
	assert.Equal(t, "auth-service-1", got.ID)
	assert.Equal(t, "auth-service", got.Name)
	assert.Equal(t, 5000, got.Port)
	require.NotNil(t, got.Check)
	assert.Equal(t, "http://10.0.0.5:5000/healthz", got.Check.HTTP)

	require.NoError(t, reg.Deregister("auth-service-1"))
	assert.Equal(t, []string{"auth-service-1"}, agent.deregistered)
}

func TestConsulRegistry_AgentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	logger := zerolog.Nop()
	reg, err := NewConsulRegistry(strings.TrimPrefix(server.URL, "http://"), &logger)
	require.NoError(t, err)

	assert.Error(t, reg.Register(Service{ID: "x", Name: "auth-service"}))
}
