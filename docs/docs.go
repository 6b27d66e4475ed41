// Package docs registra el documento OpenAPI servido en /swagger.
// Se mantiene a mano junto a las anotaciones de los handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/get-pets": {
            "get": {
                "description": "Página del catálogo filtrada. Los filtros son repetibles (` + "`" + `?species=cachorro&species=gato` + "`" + `). Las respuestas se sirven desde cache mientras dure el TTL.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Buscar mascotas",
                "parameters": [
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Especies", "name": "species", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Razas", "name": "breed", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Portes", "name": "size", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Sexos", "name": "gender", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Colores", "name": "color", "in": "query"},
                    {"type": "string", "description": "Texto libre", "name": "searchTerm", "in": "query"},
                    {"type": "integer", "description": "Offset de paginación", "name": "skip", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petsPageResponse"}},
                    "400": {"description": "skip inválido", "schema": {"$ref": "#/definitions/pets.errorResponse"}},
                    "502": {"description": "error del CMS", "schema": {"$ref": "#/definitions/pets.errorResponse"}},
                    "503": {"description": "CMS sin configurar", "schema": {"$ref": "#/definitions/pets.errorResponse"}}
                }
            }
        },
        "/api/filters": {
            "get": {
                "description": "Valores distintos por atributo sobre todo el catálogo, ordenados. Si el catálogo supera el tope de páginas, ` + "`" + `truncated` + "`" + ` es true.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Valores de filtro disponibles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.filtersResponse"}},
                    "502": {"description": "error del CMS", "schema": {"$ref": "#/definitions/pets.errorResponse"}},
                    "503": {"description": "CMS sin configurar", "schema": {"$ref": "#/definitions/pets.errorResponse"}}
                }
            }
        },
        "/api/site-config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Configuración del sitio",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.SiteConfig"}},
                    "502": {"description": "error del CMS", "schema": {"$ref": "#/definitions/pets.errorResponse"}},
                    "503": {"description": "CMS sin configurar", "schema": {"$ref": "#/definitions/pets.errorResponse"}}
                }
            }
        },
        "/api/share-search": {
            "get": {
                "description": "Solo se serializan los filtros (no el texto libre ni el offset).",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Link para compartir la búsqueda",
                "parameters": [
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Especies", "name": "species", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Razas", "name": "breed", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.shareSearchResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login de admins",
                "parameters": [
                    {"description": "Credenciales", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.Tokens"}},
                    "400": {"description": "invalid json / email inválido", "schema": {"$ref": "#/definitions/session.errorResponse"}},
                    "401": {"description": "credenciales rechazadas", "schema": {"$ref": "#/definitions/session.errorResponse"}},
                    "503": {"description": "proveedor sin configurar", "schema": {"$ref": "#/definitions/session.errorResponse"}}
                }
            }
        },
        "/admin/batch-upload/intents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Pedir destinos de subida firmados",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, email del usuario", "name": "X-Debug-User-Email", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Archivos a subir", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/uploads.createIntentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/uploads.intentsResponse"}},
                    "400": {"description": "invalid json / lote vacío", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "502": {"description": "todos los archivos fallaron", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "503": {"description": "almacenamiento sin configurar", "schema": {"$ref": "#/definitions/uploads.errorResponse"}}
                }
            }
        },
        "/admin/batch-upload": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Procesar un lote de fotos subidas",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, email del usuario", "name": "X-Debug-User-Email", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Datos del formulario e imágenes ya subidas", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/uploads.processBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/uploads.batchResponse"}},
                    "400": {"description": "validación del formulario", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "502": {"description": "todos los archivos fallaron", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "503": {"description": "CMS o IA sin configurar", "schema": {"$ref": "#/definitions/uploads.errorResponse"}}
                }
            }
        },
        "/admin/batch-upload/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Historial de lotes",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, email del usuario", "name": "X-Debug-User-Email", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "integer", "description": "Máximo de lotes (1-100). Por defecto 20", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/uploads.Batch"}}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/uploads.errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/uploads.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "pets.errorResponse": {"type": "object", "properties": {"code": {"type": "string"}, "error": {"type": "string"}}},
        "pets.petsPageResponse": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"type": "object"}},
            "total": {"type": "integer"}, "limit": {"type": "integer"}, "skip": {"type": "integer"},
            "next_skip": {"type": "integer"}
        }},
        "pets.filtersResponse": {"type": "object", "properties": {
            "filters": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
            "labels": {"type": "object", "additionalProperties": {"type": "string"}},
            "total": {"type": "integer"}, "truncated": {"type": "boolean"}
        }},
        "pets.SiteConfig": {"type": "object", "properties": {"title": {"type": "string"}, "intro": {"type": "object"}}},
        "pets.shareSearchResponse": {"type": "object", "properties": {"url": {"type": "string"}}},
        "session.loginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "session.Tokens": {"type": "object", "properties": {
            "access_token": {"type": "string"}, "id_token": {"type": "string"}, "refresh_token": {"type": "string"},
            "token_type": {"type": "string"}, "expiry": {"type": "string"}
        }},
        "session.errorResponse": {"type": "object", "properties": {"code": {"type": "string"}, "error": {"type": "string"}}},
        "uploads.Failure": {"type": "object", "properties": {"item": {"type": "string"}, "reason": {"type": "string"}}},
        "uploads.errorResponse": {"type": "object", "properties": {
            "code": {"type": "string"}, "error": {"type": "string"},
            "failures": {"type": "array", "items": {"$ref": "#/definitions/uploads.Failure"}}
        }},
        "uploads.createIntentsRequest": {"type": "object", "properties": {"files": {"type": "array", "items": {"type": "object", "properties": {
            "filename": {"type": "string"}, "content_type": {"type": "string"}, "size": {"type": "integer"}
        }}}}},
        "uploads.intentsResponse": {"type": "object", "properties": {
            "intents": {"type": "array", "items": {"type": "object"}},
            "failures": {"type": "array", "items": {"$ref": "#/definitions/uploads.Failure"}}
        }},
        "uploads.processBatchRequest": {"type": "object", "properties": {
            "contact_details": {"type": "string"}, "address": {"type": "string"}, "additional_info": {"type": "string"},
            "images": {"type": "array", "items": {"type": "object", "properties": {
                "url": {"type": "string"}, "content_type": {"type": "string"}, "content_length": {"type": "integer"}, "file_name": {"type": "string"}
            }}}
        }},
        "uploads.Batch": {"type": "object", "properties": {
            "id": {"type": "string"}, "admin_email": {"type": "string"}, "contact_details": {"type": "string"},
            "address": {"type": "string"}, "created_at": {"type": "string"},
            "files": {"type": "array", "items": {"type": "object"}}
        }},
        "uploads.batchResponse": {"allOf": [{"$ref": "#/definitions/uploads.Batch"}, {"type": "object", "properties": {
            "failures": {"type": "array", "items": {"$ref": "#/definitions/uploads.Failure"}}
        }}]}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Adote um Pet API",
	Description:      "Catálogo de pets para adoção (lectura cacheada) y carga de fotos por lote para admins.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
