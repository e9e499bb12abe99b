// Package docs registers the OpenAPI document served on /swagger/doc.json.
// Regenerate the template from the handler annotations with
// `swag init -g main.go -o docs` when the endpoint surface changes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/booking/sessions": {
            "post": {
                "tags": ["booking"],
                "summary": "Open a booking session",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SessionCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}": {
            "get": {
                "tags": ["booking"],
                "summary": "Get session state",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["booking"],
                "summary": "Close a booking session",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/buyer": {
            "put": {
                "tags": ["booking"],
                "summary": "Set buyer fields",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.BuyerUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SectionValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/custom/{cusType}": {
            "put": {
                "tags": ["booking"],
                "summary": "Set customer-type fields",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "cusType", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CustomUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SectionValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/traffic/{trafficType}": {
            "put": {
                "tags": ["booking"],
                "summary": "Set traffic-entry fields",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "trafficType", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TrafficUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SectionValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/validation": {
            "get": {
                "tags": ["booking"],
                "summary": "Validate all sections",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.SectionState"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/validation/{sectionID}": {
            "get": {
                "tags": ["booking"],
                "summary": "Validate one section",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "sectionID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SectionValidationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/booking/sessions/{id}/submit": {
            "post": {
                "tags": ["booking"],
                "summary": "Submit the booking",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SubmitOutcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.SessionCreateRequest": {"type": "object", "required": ["prod_no", "pkg_no", "item_no"], "properties": {"prod_no": {"type": "string"}, "pkg_no": {"type": "string"}, "item_no": {"type": "string"}}},
        "types.BuyerUpdateRequest": {"type": "object", "properties": {"buyer_name": {"type": "string"}, "buyer_email": {"type": "string"}, "buyer_tel": {"type": "string"}, "buyer_country": {"type": "string"}, "guide_lang": {"type": "string"}}},
        "types.CustomUpdateRequest": {"type": "object", "required": ["fields"], "properties": {"fields": {"type": "object", "additionalProperties": true}}},
        "types.TrafficUpdateRequest": {"type": "object", "required": ["fields"], "properties": {"spec_index": {"type": "integer"}, "fields": {"type": "object", "additionalProperties": true}}},
        "types.SubmitRequest": {"type": "object", "properties": {"skus": {"type": "array", "items": {"$ref": "#/definitions/types.Sku"}}, "overrides": {"type": "object", "additionalProperties": true}}},
        "types.Sku": {"type": "object", "properties": {"sku_id": {"type": "string"}, "spec_token": {"type": "string"}, "name": {"type": "string"}, "qty": {"type": "number"}, "price": {"type": "number"}}},
        "types.SessionResponse": {"type": "object", "properties": {"session_id": {"type": "string"}, "prod_no": {"type": "string"}, "pkg_no": {"type": "string"}, "item_no": {"type": "string"}, "created_at": {"type": "string"}, "sections": {"type": "array", "items": {"$ref": "#/definitions/types.SectionState"}}, "schema": {"type": "object"}}},
        "types.SectionState": {"type": "object", "properties": {"section_id": {"type": "string"}, "label": {"type": "string"}, "complete": {"type": "boolean"}, "missing": {"type": "array", "items": {"type": "string"}}}},
        "types.SectionValidationResponse": {"type": "object", "properties": {"section_id": {"type": "string"}, "complete": {"type": "boolean"}, "missing": {"type": "array", "items": {"type": "string"}}}},
        "types.SubmitOutcome": {"type": "object", "properties": {"total": {"type": "integer"}, "succeeded": {"type": "integer"}, "failed": {"type": "integer"}, "results": {"type": "array", "items": {"type": "object"}}}},
        "types.StatusResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
        "types.ErrorResponse": {"type": "object", "properties": {"type": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "string"}, "code": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Booking Flow API",
	Description:      "Booking session, field validation and submission service for travel packages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
