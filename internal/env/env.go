// Package env holds small environment lookup helpers for tools that do not
// carry the full envconfig-driven configuration.
package env

import (
	"os"
	"strconv"
)

func GetString(key string, fallback string) string {
	res, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return res
}

func GetInt(key string, fallback int) int {
	res, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val, err := strconv.Atoi(res)
	if err != nil {
		return fallback
	}
	return val
}
