package configs

import "github.com/Rakhulsr/venue-admin/app/utils/logger"

// LoggerConfig derives the zap setup from the environment. Development gets a
// console encoder at debug level, everything else json at info.
func (e ENV) LoggerConfig() *logger.Config {
	cfg := &logger.Config{
		IsDevelopment: false,
		Encoding:      "json",
		Level:         "info",
	}

	if !e.IsProduction() {
		cfg.IsDevelopment = true
		cfg.Encoding = "console"
		cfg.Level = "debug"
	}

	if e.LogLevel != "" {
		cfg.Level = e.LogLevel
	}
	if e.LogEncoding != "" {
		cfg.Encoding = e.LogEncoding
	}
	return cfg
}
