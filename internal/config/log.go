package config

import "sync"

type LogConfig struct {
	// File is the append-only operational log; "-" disables it.
	File string
	// Stream is the console sink, "stdout" or "stderr".
	Stream string
	JSON   bool
	Debug  bool
}

var (
	logConfig *LogConfig
	logOnce   sync.Once
)

func LoadLogConfig() *LogConfig {
	logOnce.Do(func() {
		logConfig = &LogConfig{
			File:   getEnv("LOG_FILE", "log.txt"),
			Stream: getEnv("LOG_STREAM", "stdout"),
			JSON:   getEnvBool("LOG_JSON", false),
			Debug:  getEnvBool("LOG_DEBUG", false),
		}
	})
	return logConfig
}
