// Package creds loads the API credentials for the machine hosting the
// lidar, camera, and detector resources.
package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrIncomplete indicates the credentials file parsed but is missing a
// required field.
var ErrIncomplete = errors.New("incomplete machine credentials")

// MachineCredentials holds the connection details for a Viam machine.
type MachineCredentials struct {
	Address  string `json:"address"`
	EntityID string `json:"entity_id"`
	APIKey   string `json:"api_key"`
}

// Validate checks that every field needed to dial the machine is set.
func (c *MachineCredentials) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: address", ErrIncomplete)
	}
	if c.EntityID == "" {
		return fmt.Errorf("%w: entity_id", ErrIncomplete)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: api_key", ErrIncomplete)
	}
	return nil
}

// Load reads, parses, and validates machine credentials from a JSON file.
func Load(path string) (*MachineCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var c MachineCredentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
