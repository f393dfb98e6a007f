package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			Path:        "~/.config/milestones",
			SQLiteFile:  "milestones.db",
			Key:         "milestones",
			RedisURL:    "",
			RedisPrefix: "milestones:",
			PostgresURL: "",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8742,
		},
		Logging: LoggingConfig{
			Level:       "info",
			File:        "",
			Development: false,
		},
		Validation: ValidationConfig{
			EnforceDateOrder: false,
		},
		Chart: ChartConfig{
			TimeUnit:  "year",
			Width:     1200,
			RowHeight: 40,
		},
	}
}
