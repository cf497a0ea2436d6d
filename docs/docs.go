// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/candidates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "List candidates",
                "parameters": [
                    {"type": "integer", "description": "Page number (default: 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default: 10, max: 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Substring of first name, last name or email", "name": "search", "in": "query"},
                    {"type": "string", "description": "Comma-separated skills, any match", "name": "skills", "in": "query"},
                    {"type": "integer", "description": "Minimum years of experience", "name": "minExperience", "in": "query"},
                    {"type": "integer", "description": "Maximum years of experience", "name": "maxExperience", "in": "query"},
                    {"type": "string", "description": "Substring of location", "name": "location", "in": "query"},
                    {"type": "string", "description": "ACTIVE, INACTIVE or BLACKLISTED", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Create candidate",
                "parameters": [
                    {"description": "Candidate data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CreateCandidateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["candidates"],
                "summary": "Export candidates",
                "parameters": [
                    {"type": "string", "description": "xlsx (default) or csv", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/search/experience": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Search candidates by experience",
                "parameters": [
                    {"type": "integer", "description": "Minimum years", "name": "minYears", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum years", "name": "maxYears", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/search/skills": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Search candidates by skills",
                "parameters": [
                    {"type": "string", "description": "Comma-separated skills", "name": "skills", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Get candidate",
                "parameters": [{"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Update candidate",
                "parameters": [
                    {"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateCandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Delete candidate",
                "parameters": [{"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/{id}/activate": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Activate candidate",
                "parameters": [{"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/{id}/deactivate": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Deactivate candidate",
                "parameters": [{"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "domain.CreateCandidateRequest": {
            "type": "object",
            "required": ["email", "firstName", "lastName", "experience"],
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string", "maxLength": 50},
                "lastName": {"type": "string", "maxLength": 50},
                "phone": {"type": "string"},
                "resumeUrl": {"type": "string"},
                "linkedinUrl": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "experience": {"type": "integer", "minimum": 0},
                "location": {"type": "string"},
                "salary": {"type": "integer", "minimum": 0}
            }
        },
        "domain.UpdateCandidateRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string", "maxLength": 50},
                "lastName": {"type": "string", "maxLength": 50},
                "phone": {"type": "string"},
                "resumeUrl": {"type": "string"},
                "linkedinUrl": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "experience": {"type": "integer", "minimum": 0},
                "location": {"type": "string"},
                "salary": {"type": "integer", "minimum": 0}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "ATS Candidate API",
	Description:      "Candidate management backend for the applicant tracking system.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
