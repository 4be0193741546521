// @title           superheroes API
// @version         1.0
// @description     Hero roster service: CRUD, search and pagination over an in-memory store backed by a pluggable data source.
// @BasePath        /api/v1
package api

//go:generate swag init --dir ../.. --generalInfo internal/api/main_annotations.go --output ../../docs/swagger --outputTypes go --packageName swagger --parseInternal
