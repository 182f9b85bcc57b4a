package config

import (
	"os"
	"strconv"
)

type Runtime struct {
	HTTPAddr      string
	CacheMaxItems int
	MaxPaths      int
	ObsBuffer     int
	WithPath      bool
}

func Load() Runtime {
	return Runtime{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		CacheMaxItems: getenvInt("GEN_CACHE_MAX_ITEMS", 1024, 1),
		MaxPaths:      getenvInt("GEN_MAX_PATHS", 4096, 1),
		ObsBuffer:     getenvInt("GEN_OBS_BUFFER", 4096, 1),
		WithPath:      getenvBool("GEN_WITH_PATH", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
