package cmd

import (
	"log"
	"os"
	"strconv"
)

// EnvInt reads an integer from the environment, falling back to def when unset
// or unparsable.
func EnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, s, err)
		return def
	}
	return v
}

func EnvString(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}
