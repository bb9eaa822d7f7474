// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/account.LoginDTO"}}],
                "responses": {"200": {"description": "session started"}, "401": {"description": "invalid email or password"}}
            }
        },
        "/auth/google/login": {
            "get": {"tags": ["auth"], "summary": "Redirect to Google sign-in (staff only)", "responses": {"302": {"description": "redirect"}}}
        },
        "/auth/google/callback": {
            "get": {"tags": ["auth"], "summary": "Complete Google sign-in", "responses": {"200": {"description": "session started"}, "403": {"description": "not a staff account"}}}
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "End the current session", "responses": {"200": {"description": "logged out"}}}
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current identity", "responses": {"200": {"description": "identity"}}}
        },
        "/dean/accounts": {
            "get": {"tags": ["dean"], "summary": "List accounts", "parameters": [{"in": "query", "name": "role", "type": "string"}], "responses": {"200": {"description": "accounts"}}},
            "post": {"tags": ["dean"], "summary": "Create an account", "responses": {"201": {"description": "created"}, "409": {"description": "email taken"}}}
        },
        "/dean/accounts/{id}": {
            "delete": {"tags": ["dean"], "summary": "Delete an account", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "deleted"}}}
        },
        "/dean/sections": {
            "get": {"tags": ["dean"], "summary": "List sections", "responses": {"200": {"description": "sections"}}},
            "post": {"tags": ["dean"], "summary": "Create a section", "responses": {"201": {"description": "created"}}}
        },
        "/dean/sections/{id}": {
            "delete": {"tags": ["dean"], "summary": "Delete a section", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "deleted"}}}
        },
        "/tests": {
            "get": {"tags": ["tests"], "summary": "List tests", "responses": {"200": {"description": "summaries"}}},
            "post": {"tags": ["tests"], "summary": "Create a test", "responses": {"201": {"description": "created"}, "400": {"description": "validation failed"}}}
        },
        "/tests/{id}": {
            "get": {"tags": ["tests"], "summary": "Get a test", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "test"}}},
            "put": {"tags": ["tests"], "summary": "Update a test", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "test"}}},
            "delete": {"tags": ["tests"], "summary": "Delete a test", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "deleted"}}}
        },
        "/tests/{id}/attempts": {
            "get": {"tags": ["tests"], "summary": "Student performance on a test", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "report"}}}
        },
        "/student/dashboard": {
            "get": {"tags": ["student"], "summary": "Assigned and completed tests", "responses": {"200": {"description": "dashboard"}}}
        },
        "/student/attempts": {
            "get": {"tags": ["student"], "summary": "Own attempt history", "responses": {"200": {"description": "attempts"}}}
        },
        "/student/tests/search": {
            "get": {"tags": ["student"], "summary": "Search available tests", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "matches"}}}
        },
        "/student/tests/{id}/eligibility": {
            "get": {"tags": ["student"], "summary": "Check eligibility", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "decision"}}}
        },
        "/student/tests/{id}/start": {
            "post": {"tags": ["student"], "summary": "Start an attempt", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "query", "name": "retake", "type": "boolean"}], "responses": {"200": {"description": "shown questions"}, "403": {"description": "not eligible"}, "409": {"description": "already attempted"}}}
        },
        "/student/tests/{id}/submit": {
            "post": {"tags": ["student"], "summary": "Submit answers", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "graded result"}, "409": {"description": "no test in progress or already attempted"}}}
        },
        "/student/tests/{id}/result": {
            "get": {"tags": ["student"], "summary": "Stored attempt", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "attempt"}, "404": {"description": "no attempt"}}}
        },
        "/healthz": {
            "get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        }
    },
    "definitions": {
        "account.LoginDTO": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Test Bank API",
	Description:      "Role-based academic test bank: authoring, eligibility, randomized attempts and grading.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
