package config

import (
	"os"
	"strconv"
)

// ApplyEnv overlays environment variables onto the config.
// Unset or unparsable variables leave the config untouched.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUESTLOG_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("QUESTLOG_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v, ok := getEnvInt("QUESTLOG_REMINDER_OFFSET_MIN"); ok && v >= 0 {
		c.Reminders.DefaultOffsetMinutes = &v
	}
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
