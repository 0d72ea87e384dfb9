package config

import "fmt"

// APIConfig configures the HTTP API served by `serve`.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer authentication when set.
	Token string `json:"token"`
	// MaxGrants bounds the number of grants accepted per request.
	MaxGrants int `json:"max_grants"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxGrants <= 0 {
		c.MaxGrants = 100
	}
}

func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}
