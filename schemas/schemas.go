// Package schemas содержит JSON-схемы контрактов сервиса: события брокера и тела запросов.
package schemas

import "embed"

//go:embed events requests
var SchemasFS embed.FS
