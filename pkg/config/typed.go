package config

// TypedConfig provides type-safe access to the ambient configuration values
// ink itself reads: logging, checkout behavior, and storage. It wraps a
// Manager and exposes convenient getter methods over the raw string entries.
type TypedConfig struct {
	manager *Manager
}

// NewTypedConfig creates a new TypedConfig wrapper around a Manager
func NewTypedConfig(manager *Manager) *TypedConfig {
	return &TypedConfig{
		manager: manager,
	}
}

// LogLevel returns the configured logging level (debug, info, warn, error).
func (tc *TypedConfig) LogLevel() string {
	entry := tc.manager.Get("log.level")
	if entry == nil {
		return "info"
	}
	return entry.AsString()
}

// LogFormat returns the configured logging output format (text or json).
func (tc *TypedConfig) LogFormat() string {
	entry := tc.manager.Get("log.format")
	if entry == nil {
		return "text"
	}
	return entry.AsString()
}

// PreserveMode returns whether go (checkout) should restore a materialized
// file's stored permission bits rather than forcing the default 0644.
func (tc *TypedConfig) PreserveMode() bool {
	entry := tc.manager.Get("checkout.preserve_mode")
	if entry == nil {
		return false
	}
	val, err := entry.AsBoolean()
	if err != nil {
		return false
	}
	return val
}

// CompressionLevel returns the deflate compression level the store uses
// when writing new blobs, clamped to zlib's [0,9] range by the caller.
func (tc *TypedConfig) CompressionLevel() int {
	entry := tc.manager.Get("store.compression_level")
	if entry == nil {
		return 6
	}
	val, err := entry.AsInt()
	if err != nil {
		return 6
	}
	return val
}

// GetString returns a configuration value as a string
func (tc *TypedConfig) GetString(key string) string {
	entry := tc.manager.Get(key)
	if entry == nil {
		return ""
	}
	return entry.AsString()
}

// GetInt returns a configuration value as an integer
func (tc *TypedConfig) GetInt(key string) (int, error) {
	entry := tc.manager.Get(key)
	if entry == nil {
		return 0, NewNotFoundError(key, "")
	}
	return entry.AsInt()
}

// GetBool returns a configuration value as a boolean
func (tc *TypedConfig) GetBool(key string) (bool, error) {
	entry := tc.manager.Get(key)
	if entry == nil {
		return false, NewNotFoundError(key, "")
	}
	return entry.AsBoolean()
}

// GetList returns a configuration value as a list of strings
func (tc *TypedConfig) GetList(key string) []string {
	entry := tc.manager.Get(key)
	if entry == nil {
		return []string{}
	}
	return entry.AsList()
}

// GetAll returns all values for a multi-value configuration key
func (tc *TypedConfig) GetAll(key string) []string {
	entries := tc.manager.GetAll(key)
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.AsString())
	}
	return result
}
