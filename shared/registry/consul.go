package registry

import (
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Service describes a service instance registered with Consul.
type Service struct {
	ID        string
	Name      string
	Address   string
	Port      int
	HealthURL string
	Tags      []string
}

// ConsulRegistry registers service instances with a Consul agent.
type ConsulRegistry struct {
	client *api.Client
	logger *zerolog.Logger
}

// NewConsulRegistry creates a registry talking to the Consul agent at address.
func NewConsulRegistry(address string, logger *zerolog.Logger) (*ConsulRegistry, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &ConsulRegistry{client: client, logger: logger}, nil
}

// Register registers svc along with an HTTP health check.
func (r *ConsulRegistry) Register(svc Service) error {
	registration := &api.AgentServiceRegistration{
		ID:      svc.ID,
		Name:    svc.Name,
		Address: svc.Address,
		Port:    svc.Port,
		Tags:    svc.Tags,
	}

	if svc.HealthURL != "" {
		registration.Check = &api.AgentServiceCheck{
			HTTP:                           svc.HealthURL,
			Interval:                       (10 * time.Second).String(),
			Timeout:                        (2 * time.Second).String(),
			DeregisterCriticalServiceAfter: time.Minute.String(),
		}
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register service %s: %w", svc.ID, err)
	}

	r.logger.Info().Str("service_id", svc.ID).Str("service", svc.Name).Msg("registered with consul")

	return nil
}

// Deregister removes the service instance with the given id.
func (r *ConsulRegistry) Deregister(serviceID string) error {
	if err := r.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("deregister service %s: %w", serviceID, err)
	}

	r.logger.Info().Str("service_id", serviceID).Msg("deregistered from consul")

	return nil
}
