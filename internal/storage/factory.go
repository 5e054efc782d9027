package storage

import (
	"fmt"
	"strings"

	"github.com/ppiankov/feels/internal/model"
)

// Open creates the backend named by cfg.Backend
func Open(cfg model.StoreConfig) (Store, error) {
	backend := strings.ToLower(cfg.Backend)

	switch backend {
	case "disk", "":
		return NewDiskStore(cfg.Dir), nil

	case "memory":
		return NewMemoryStore(), nil

	case "layered":
		return NewLayeredStore(NewDiskStore(cfg.Dir)), nil

	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)

	case "redis":
		return NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: disk, memory, layered, sqlite, redis)", cfg.Backend)
	}
}

// Describe returns a human-readable location for cfg
func Describe(cfg model.StoreConfig) string {
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return "memory (not persisted)"
	case "sqlite":
		return "sqlite:" + cfg.SQLitePath + "#" + Key(cfg.Key)
	case "redis":
		return "redis://" + cfg.Redis.Addr + "/" + Key(cfg.Key)
	default:
		path, err := NewDiskStore(cfg.Dir).Path(cfg.Key)
		if err != nil {
			return cfg.Dir
		}
		return path
	}
}
