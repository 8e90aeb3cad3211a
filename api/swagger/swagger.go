package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Seatbook API",
        "description": "Office seat booking with weekly auto-booking and attendance compliance",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "AutoBooking", "description": "Weekly seat auto-booking engine"},
        {"name": "Bookings", "description": "Seat availability and attendance compliance"}
    ],
    "paths": {
        "/admin/auto-bookings": {
            "post": {
                "tags": ["AutoBooking"],
                "summary": "Run auto-booking for a week",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunAutoBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AutoBookingResultEnvelope"}},
                    "400": {"description": "Invalid week", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/auto-bookings/preferences": {
            "get": {
                "tags": ["AutoBooking"],
                "summary": "Preview auto-booking eligibility",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/auto/ensure": {
            "post": {
                "tags": ["AutoBooking"],
                "summary": "Queue auto-booking for the caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Queue unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/available-seats": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List free and booked seats for a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/weekly-status": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Weekly attendance compliance for the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "weekStart", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/my": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List the caller's confirmed bookings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RunAutoBookingRequest": {
            "type": "object",
            "properties": {
                "weekStartDate": {"type": "string", "format": "date", "description": "Monday of the target week"},
                "userIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["weekStartDate"]
        },
        "AutoBookingUserOutcome": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "username": {"type": "string"},
                "bookingsCreated": {"type": "integer"},
                "notes": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"}
            }
        },
        "AutoBookingResult": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "weekStartDate": {"type": "string", "format": "date"},
                "successful": {"type": "integer"},
                "failed": {"type": "integer"},
                "skipped": {"type": "integer"},
                "processed": {"type": "integer"},
                "total": {"type": "integer"},
                "interrupted": {"type": "boolean"},
                "details": {
                    "type": "object",
                    "properties": {
                        "success": {"type": "array", "items": {"$ref": "#/definitions/AutoBookingUserOutcome"}},
                        "failed": {"type": "array", "items": {"$ref": "#/definitions/AutoBookingUserOutcome"}},
                        "skipped": {"type": "array", "items": {"$ref": "#/definitions/AutoBookingUserOutcome"}}
                    }
                }
            }
        },
        "AutoBookingResultEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/AutoBookingResult"}
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
