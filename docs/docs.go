// Package docs registers the gateway's OpenAPI description with swag.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.healthPayload"}}
                }
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List published posts",
                "parameters": [
                    {"type": "string", "description": "exact tag to filter by", "name": "tag", "in": "query"},
                    {"type": "integer", "default": 50, "description": "page size, at most 500", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "items to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PostListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/posts/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a published post with its body",
                "parameters": [
                    {"type": "string", "description": "post slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/img/{path}": {
            "get": {
                "tags": ["binary"],
                "summary": "Redirect to a transformed image",
                "parameters": [
                    {"type": "string", "description": "image path below images/", "name": "path", "in": "path", "required": true},
                    {"type": "integer", "description": "width", "name": "w", "in": "query"},
                    {"type": "integer", "description": "height", "name": "h", "in": "query"},
                    {"enum": ["webp", "avif", "jpeg", "png"], "type": "string", "description": "format", "name": "f", "in": "query"},
                    {"type": "integer", "description": "quality 1-100", "name": "q", "in": "query"},
                    {"enum": ["cover", "contain", "scale-down", "crop", "pad"], "type": "string", "description": "fit mode", "name": "fit", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/file/{path}": {
            "get": {
                "tags": ["binary"],
                "summary": "Download a file",
                "parameters": [
                    {"type": "string", "description": "file path below files/", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/asset/{path}": {
            "get": {
                "tags": ["binary"],
                "summary": "Serve a site asset",
                "parameters": [
                    {"type": "string", "description": "asset path below assets/", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/revalidate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["revalidate"],
                "summary": "Trigger a site rebuild",
                "parameters": [
                    {"type": "string", "description": "shared secret", "name": "X-Revalidate-Secret", "in": "header"},
                    {"type": "string", "description": "shared secret, used when the header is absent", "name": "secret", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RevalidateResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.hookFailurePayload"}}
                }
            }
        }
    },
    "definitions": {
        "frontmatter.Field": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "value": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "request_id": {"type": "string"}}
        },
        "handler.hookFailurePayload": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}, "error": {"type": "string"}, "status": {"type": "integer"}}
        },
        "handler.healthPayload": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}, "service": {"type": "string"}, "ts": {"type": "string"}}
        },
        "model.PostMeta": {
            "type": "object",
            "properties": {
                "slug": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "pubDate": {"type": "string"},
                "sortDate": {"type": "string"},
                "updatedDate": {"type": "string"},
                "heroImage": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "draft": {"type": "boolean"},
                "extra": {"type": "array", "items": {"$ref": "#/definitions/frontmatter.Field"}}
            }
        },
        "model.Post": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/model.PostMeta"}],
            "properties": {"body": {"type": "string"}}
        },
        "service.PostListResult": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "offset": {"type": "integer"},
                "limit": {"type": "integer"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/model.PostMeta"}}
            }
        },
        "service.RevalidateResult": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}, "message": {"type": "string"}, "timestamp": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Content Gateway API",
	Description:      "Articles, images, files and assets served from object storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
