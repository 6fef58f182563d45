package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry - скомпилированные JSON-схемы, доступные по ключу вида "AgreementNotificationEvent/1.0.0".
type Registry struct {
	compiled map[string]*jsonschema.Schema
}

// Каталоги схем и суффиксы, которые получают ключи из них.
var schemaRoots = map[string]string{
	"events":   "Event",
	"requests": "Request",
}

// NewRegistry компилирует все *.json из каталогов events/ и requests/.
func NewRegistry(fsys fs.FS) (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string

	// Сначала добавляем все схемы как ресурсы, чтобы работали ссылки `$ref` между ними
	for root := range schemaRoots {
		err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			file, err := fsys.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := compiler.AddResource(path, file); err != nil {
				return fmt.Errorf("failed to add schema resource %s: %w", path, err)
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking schema dir %s: %w", root, err)
		}
	}

	registry := &Registry{compiled: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not match <dir>/<name>/v<N>.json", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		registry.compiled[key] = schema
	}
	return registry, nil
}

// generateKeyFromPath преобразует путь вида "events/agreement-notification/v1.json"
// в ключ вида "AgreementNotificationEvent/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 {
		return ""
	}
	suffix, ok := schemaRoots[parts[0]]
	if !ok || !strings.HasPrefix(parts[2], "v") {
		return ""
	}

	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(parts[1], "-") {
		nameBuilder.WriteString(caser.String(p))
	}
	nameBuilder.WriteString(suffix)

	version := strings.TrimPrefix(parts[2], "v") + ".0.0"

	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// Keys возвращает зарегистрированные ключи.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.compiled))
	for k := range r.compiled {
		keys = append(keys, k)
	}
	return keys
}

// ValidateEvent проверяет тело сообщения по схеме события с указанными типом и версией.
func (r *Registry) ValidateEvent(eventType, eventVersion string, body []byte) error {
	return r.validate(fmt.Sprintf("%s/%s", eventType, eventVersion), body)
}

// ValidateRequest проверяет тело HTTP-запроса. name - без суффикса, например "CreateAgreement".
func (r *Registry) ValidateRequest(name string, version int, body []byte) error {
	return r.validate(fmt.Sprintf("%sRequest/%d.0.0", name, version), body)
}

func (r *Registry) validate(key string, body []byte) error {
	schema, ok := r.compiled[key]
	if !ok {
		return fmt.Errorf("schema %q not found", key)
	}

	// Распарсить JSON в универсальный тип interface{}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not a valid JSON: %v", ErrInvalidPayload, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
