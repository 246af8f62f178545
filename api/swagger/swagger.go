package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Monitor API",
        "description": "Roll-call reconciliation for school administrators",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Attendance", "description": "Scheduled slots reconciled with recorded roll calls"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Database reachable"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/admin/attendance/monitor": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Roll-call monitor",
                "description": "Classifies every scheduled slot of the caller's institution as missing, late or ok.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "format": "date", "description": "Start date (YYYY-MM-DD)"},
                    {"name": "to", "in": "query", "type": "string", "format": "date", "description": "End date (YYYY-MM-DD), defaults to today"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["missing", "late", "ok"]},
                    {"name": "debug", "in": "query", "type": "string", "description": "Set to 1 to include diagnostics"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MonitorResponse"}},
                    "400": {"description": "no_institution, invalid_date, validation_error or upstream_error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/v1/admin/attendance/monitor/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export roll-call monitor",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["missing", "late", "ok"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/v1/admin/attendance/monitor/cache": {
            "delete": {
                "tags": ["Attendance"],
                "summary": "Drop cached reference tables",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "MonitorRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "weekday_label": {"type": "string", "x-nullable": true},
                "period_label": {"type": "string", "x-nullable": true},
                "planned_start": {"type": "string", "x-nullable": true},
                "planned_end": {"type": "string", "x-nullable": true},
                "class_label": {"type": "string", "x-nullable": true},
                "subject_name": {"type": "string", "x-nullable": true},
                "teacher_name": {"type": "string"},
                "status": {"type": "string", "enum": ["missing", "late", "ok"]},
                "late_minutes": {"type": "integer", "x-nullable": true},
                "opened_from": {"type": "string", "enum": ["teacher", "class_device"], "x-nullable": true}
            }
        },
        "MonitorResponse": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/MonitorRow"}},
                "debug": {"type": "object"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
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
