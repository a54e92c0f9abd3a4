package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Convocation Lookup API",
        "description": "Graduation ceremony lookup and photo correction requests",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Bachelor", "description": "Ceremony lookup and correction requests"},
        {"name": "Authentication", "description": "Staff sign-in"}
    ],
    "paths": {
        "/bachelor/{studentId}": {
            "get": {
                "tags": ["Bachelor"],
                "summary": "Look up a bachelor",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/{studentId}/request-status": {
            "get": {
                "tags": ["Bachelor"],
                "summary": "Current correction request status",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/{studentId}/request-image": {
            "post": {
                "tags": ["Bachelor"],
                "summary": "Request a photo correction",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "409": {"description": "A request is already pending", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/{studentId}/missing-information": {
            "post": {
                "tags": ["Bachelor"],
                "summary": "File missing personal information",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MissingInformationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "A submission is already pending", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/approve/{studentId}": {
            "put": {
                "tags": ["Bachelor"],
                "summary": "Resolve the pending correction request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "No pending request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/requests": {
            "get": {
                "tags": ["Bachelor"],
                "summary": "List correction requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bachelor/requests/export": {
            "get": {
                "tags": ["Bachelor"],
                "summary": "Export correction requests",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/user/google-login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in with Google",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GoogleLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid Google token", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ImageRequest": {
            "type": "object",
            "required": ["newImageUrl"],
            "properties": {
                "newImageUrl": {"type": "string", "format": "uri"},
                "note": {"type": "string", "maxLength": 500}
            }
        },
        "ResolveRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]}
            }
        },
        "MissingInformationRequest": {
            "type": "object",
            "required": ["fullName", "email", "phoneNumber"],
            "properties": {
                "fullName": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "format": "email"},
                "phoneNumber": {"type": "string"},
                "note": {"type": "string", "maxLength": 500}
            }
        },
        "GoogleLoginRequest": {
            "type": "object",
            "required": ["googleToken"],
            "properties": {
                "googleToken": {"type": "string"}
            }
        },
        "Metadata": {
            "type": "object",
            "properties": {
                "totalItems": {"type": "integer"},
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "statusCode": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "statusCode": {"type": "integer"},
                "message": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {
                        "name": {"type": "string"},
                        "details": {"type": "array", "items": {"$ref": "#/definitions/ErrorDetail"}}
                    }
                }
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
