package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Projection API",
        "description": "Projection, substitution resolution and edit service for generated timetables",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable lifecycle, grids and conflicts"},
        {"name": "Faculty", "description": "Per-faculty schedule views"},
        {"name": "Substitutions", "description": "Time-bounded faculty overrides"},
        {"name": "Edits", "description": "Drag-and-drop grid edits"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Backing stores unreachable"}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List timetables",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "batchId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Ingest a finished timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get timetable with assignments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/status": {
            "patch": {
                "tags": ["Timetables"],
                "summary": "Transition timetable status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTimetableStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/timetables/{id}/conflicts": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Detect conflicts in a timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/batches/{batchId}/grid": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Project the weekly grid for one batch",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/edits": {
            "post": {
                "tags": ["Edits"],
                "summary": "Apply a drag-and-drop edit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Timetable no longer editable"}
                }
            }
        },
        "/faculty/{id}/grid": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Project a faculty member's weekly grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string", "description": "Resolve substitutions for this date (YYYY-MM-DD)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/{id}/grid/export": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Export a faculty member's resolved grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/substitutions": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "List substitutions",
                "parameters": [
                    {"name": "facultyId", "in": "query", "type": "string"},
                    {"name": "batchId", "in": "query", "type": "string"},
                    {"name": "activeOn", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Substitutions"],
                "summary": "Create substitution",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubstitutionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/{id}": {
            "delete": {
                "tags": ["Substitutions"],
                "summary": "Expire substitution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "ClassAssignment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "timetable_id": {"type": "string"},
                "batch_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "faculty_ids": {"type": "array", "items": {"type": "string"}},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "time_slot": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "Substitution": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "original_assignment_id": {"type": "string"},
                "original_faculty_id": {"type": "string"},
                "substitute_faculty_id": {"type": "string"},
                "substitute_subject_id": {"type": "string"},
                "batch_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "time_slot": {"type": "integer"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "CreateTimetableRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ClassAssignment"}
                }
            },
            "required": ["name", "assignments"]
        },
        "UpdateTimetableStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["DRAFT", "APPROVED", "ARCHIVED"]}
            },
            "required": ["status"]
        },
        "CreateSubstitutionRequest": {
            "type": "object",
            "properties": {
                "original_assignment_id": {"type": "string"},
                "original_faculty_id": {"type": "string"},
                "substitute_faculty_id": {"type": "string"},
                "substitute_subject_id": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["original_assignment_id", "original_faculty_id", "substitute_faculty_id", "substitute_subject_id", "start_date", "end_date"]
        },
        "EditRequest": {
            "type": "object",
            "properties": {
                "source_assignment_id": {"type": "string"},
                "target_day": {"type": "string"},
                "target_slot": {"type": "integer"}
            },
            "required": ["source_assignment_id", "target_day"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
