package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Garden Network API",
        "description": "Inter-classroom social network: profiles, discovery, connections, challenges, leaderboard",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Profile", "description": "Classroom network profile"},
        {"name": "Discovery", "description": "Visibility-scoped classroom discovery"},
        {"name": "Connections", "description": "Connection request state machine"},
        {"name": "Challenges", "description": "Time-boxed competition registry"},
        {"name": "Leaderboard", "description": "Harvest-weight rankings"}
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
        "/api/v1/network/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get the acting classroom's network profile",
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No profile yet"}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Create or update the acting classroom's network profile",
                "responses": {
                    "200": {"description": "Saved profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failure naming the offending field"}
                }
            },
            "delete": {
                "tags": ["Profile"],
                "summary": "Soft-disable the profile; accepted connections remain valid",
                "responses": {
                    "204": {"description": "Disabled"}
                }
            }
        },
        "/api/v1/network/discover": {
            "get": {
                "tags": ["Discovery"],
                "summary": "Discover classrooms visible to the acting classroom",
                "parameters": [
                    {"name": "region", "in": "query", "type": "string"},
                    {"name": "gradeLevel", "in": "query", "type": "string"},
                    {"name": "schoolType", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "excludeConnected", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Discoverable profiles (invite-only never included)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/network/connections": {
            "get": {
                "tags": ["Connections"],
                "summary": "List accepted connections",
                "responses": {
                    "200": {"description": "Accepted connections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Connections"],
                "summary": "Send a connection request",
                "responses": {
                    "201": {"description": "Pending connection"},
                    "409": {"description": "A connection already exists between the pair"}
                }
            }
        },
        "/api/v1/network/connections/pending": {
            "get": {
                "tags": ["Connections"],
                "summary": "Pending requests split into incoming and outgoing",
                "responses": {
                    "200": {"description": "Pending requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/network/connections/{id}/respond": {
            "post": {
                "tags": ["Connections"],
                "summary": "Accept or decline a pending request (target only)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Updated connection"},
                    "409": {"description": "Wrong actor or connection not pending"}
                }
            }
        },
        "/api/v1/network/connections/{id}/block": {
            "post": {
                "tags": ["Connections"],
                "summary": "Block a request (target only, terminal)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Blocked connection"}
                }
            }
        },
        "/api/v1/network/connections/{id}": {
            "delete": {
                "tags": ["Connections"],
                "summary": "Remove an accepted connection or withdraw a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/api/v1/network/challenges": {
            "get": {
                "tags": ["Challenges"],
                "summary": "Active challenges still open as of a date",
                "parameters": [
                    {"name": "asOf", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Challenges", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/network/challenges/{id}/join": {
            "post": {
                "tags": ["Challenges"],
                "summary": "Join a challenge (idempotent)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Participation"}
                }
            },
            "delete": {
                "tags": ["Challenges"],
                "summary": "Leave a still-open challenge",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Left"},
                    "409": {"description": "Challenge already ended"}
                }
            }
        },
        "/api/v1/network/challenges/{id}/participation": {
            "get": {
                "tags": ["Challenges"],
                "summary": "Own participation and participant count",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Participation status"}
                }
            }
        },
        "/api/v1/network/challenges/{id}/close": {
            "post": {
                "tags": ["Challenges"],
                "summary": "Close a challenge and freeze final scores (platform operators)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Closed challenge"},
                    "403": {"description": "Caller is not a platform operator"}
                }
            }
        },
        "/api/v1/network/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Ranked harvest standings across sharing classrooms",
                "parameters": [
                    {"name": "connectedOnly", "in": "query", "type": "boolean"},
                    {"name": "region", "in": "query", "type": "string"},
                    {"name": "gradeLevel", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Entries sorted by total harvest weight descending", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
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
