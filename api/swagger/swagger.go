package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Voyages Scolaires API",
        "description": "Trip registration backend: administrators mint access tokens, guardians submit student forms",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Trips", "description": "Administrator trip management"},
        {"name": "Links", "description": "Token minting and guardian submissions"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/trips": {
            "get": {
                "tags": ["Trips"],
                "summary": "List trips",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Trips"],
                "summary": "Create trip",
                "parameters": [
                    {"name": "name", "in": "query", "required": true, "type": "string"},
                    {"name": "classe", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/trips/{id}/links": {
            "post": {
                "tags": ["Links"],
                "summary": "Mint access tokens for a trip",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "count", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Trip not found"}
                }
            }
        },
        "/api/v1/trips/{id}/students": {
            "get": {
                "tags": ["Trips"],
                "summary": "List a trip's submitted students",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Trip not found"}
                }
            }
        },
        "/api/v1/trips/{id}/students/export": {
            "get": {
                "tags": ["Trips"],
                "summary": "Export a trip's roster as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered roster"},
                    "404": {"description": "Trip not found"}
                }
            }
        },
        "/api/v1/links/{token}/upload": {
            "post": {
                "tags": ["Links"],
                "summary": "Upload an identity document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Token not found"}
                }
            }
        },
        "/api/v1/links/{token}/ocr": {
            "post": {
                "tags": ["Links"],
                "summary": "Run placeholder OCR extraction",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Token not found"}
                }
            }
        },
        "/api/v1/links/{token}/submit": {
            "post": {
                "tags": ["Links"],
                "summary": "Submit or update a student form",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Token not found"},
                    "422": {"description": "Invalid email"}
                }
            }
        },
        "/api/v1/links/{token}/status": {
            "get": {
                "tags": ["Links"],
                "summary": "Resolve the completion status of a token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Token not found"}
                }
            }
        }
    },
    "definitions": {
        "Trip": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "classe": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "StudentUpdate": {
            "type": "object",
            "properties": {
                "nom": {"type": "string"},
                "prenom": {"type": "string"},
                "naissance": {"type": "string"},
                "sexe": {"type": "string"},
                "nationalite": {"type": "string"},
                "doc_type": {"type": "string"},
                "doc_number": {"type": "string"},
                "doc_expiration": {"type": "string"},
                "adresse": {"type": "string"},
                "email": {"type": "string"},
                "tel": {"type": "string"},
                "contact_nom": {"type": "string"},
                "contact_lien": {"type": "string"},
                "contact_tel": {"type": "string"},
                "allergies": {"type": "boolean"},
                "allergies_details": {"type": "string"},
                "pai": {"type": "boolean"},
                "pai_ref": {"type": "string"},
                "autorisation_parentale": {"type": "boolean"},
                "status": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
