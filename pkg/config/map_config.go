package config

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/apex/log"
)

// MapConfig is an in-memory Configer for tests.
type MapConfig struct {
	configValues sync.Map
}

func NewMapConfig(entries map[string]string) *MapConfig {
	c := &MapConfig{}

	for key, entry := range entries {
		c.configValues.Store(key, entry)
	}

	return c
}

func (c *MapConfig) LoadFromPath(_ string) error {
	return fmt.Errorf("LoadFromPath not supported for MapConfig")
}

func (c *MapConfig) Load() error {
	return nil
}

func (c *MapConfig) GetKey(key string) string {
	v, ok := c.configValues.Load(key)
	switch {
	case !ok:
		return ""

	case v == nil:
		return ""

	default:
		return v.(string)
	}
}

func (c *MapConfig) MustGetKey(key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (c *MapConfig) GetKeyWithDefault(key, defaultValue string) string {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	return val
}

func (c *MapConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}

	return boolVal
}
