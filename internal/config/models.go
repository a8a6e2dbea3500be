package config

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress string
}

// StoreConfig represents the canonical message store configuration
type StoreConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// SignalsConfig represents the signal catalog tuning surface. Weights maps
// signal id to an override of its built-in weight; empty lists fall back to
// the built-in denylists.
type SignalsConfig struct {
	WarnThreshold       int
	SuspiciousThreshold int
	Weights             map[string]int
	RiskyExtensions     []string
	ShortenerDomains    []string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}

// GetSignals returns the signal tuning configuration
func (c *Config) GetSignals() SignalsConfig {
	weights := make(map[string]int)
	for id, raw := range c.v.GetStringMap("signals.weights") {
		switch n := raw.(type) {
		case int:
			weights[id] = n
		case float64:
			weights[id] = int(n)
		}
	}
	return SignalsConfig{
		WarnThreshold:       c.GetInt("signals.warn_threshold"),
		SuspiciousThreshold: c.GetInt("signals.suspicious_threshold"),
		Weights:             weights,
		RiskyExtensions:     c.GetStringSlice("signals.risky_extensions"),
		ShortenerDomains:    c.GetStringSlice("signals.shortener_domains"),
	}
}
