// Package migrations хранит SQL-схему сервиса и применяет ее к PostgreSQL.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Migration - пара up/down скриптов одной версии.
type Migration struct {
	Version string
	Name    string
	Up      string
	Down    string
}

// Load читает встроенные миграции, отсортированные по версии.
func Load() ([]Migration, error) {
	return loadFrom(sqlFS, "sql")
}

// loadFrom ожидает файлы вида <version>_<name>.up.sql и <version>_<name>.down.sql.
func loadFrom(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations dir: %w", err)
	}

	byVersion := make(map[string]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()

		var direction string
		switch {
		case strings.HasSuffix(fileName, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(fileName, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		base := strings.TrimSuffix(fileName, "."+direction+".sql")
		version, name, ok := strings.Cut(base, "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("migration file %q must be named <version>_<name>.%s.sql", fileName, direction)
		}

		body, err := fs.ReadFile(fsys, path.Join(dir, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %q: %w", fileName, err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if m.Name != name {
			return nil, fmt.Errorf("migration version %s has conflicting names %q and %q", version, m.Name, name)
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	result := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s_%s has no up script", m.Version, m.Name)
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}
