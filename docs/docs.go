// Package docs holds the OpenAPI description served under /api/swagger. It
// mirrors the swag annotations in internal/handlers; after changing them,
// regenerate it with
//
//	swag init -g cmd/main.go -o docs --parseInternal
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
        "/analysis/conflicts": {
            "post": {
                "description": "Detects duplicates and overlaps on a plan. With auto_resolve set, low-confidence duplicates are deactivated.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "conflicts"
                ],
                "summary": "Run conflict analysis",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Analysis request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.AnalysisRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.AnalysisReport"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/detection-jobs/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "Get a detection job",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Detection job ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DetectionJob"
                        }
                    },
                    "404": {
                        "description": "Detection job not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects": {
            "get": {
                "description": "Lists the objects of the caller's tenant with optional filters",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "List objects",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "plan_id",
                        "in": "query",
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Comma separated statuses",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Criticality",
                        "name": "criticality",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Only active or inactive objects",
                        "name": "active",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "description": "Review flag",
                        "name": "requires_review",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Page offset",
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ObjectList"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            },
            "post": {
                "description": "Places a new object on a plan. Category and type must exist in the catalog.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Create an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Actor",
                        "name": "X-Actor-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Role",
                        "name": "X-Actor-Role",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object data",
                        "name": "object",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.CreateObjectInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "404": {
                        "description": "Plan not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/nearby": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Find objects near a point",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "plan_id",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "X",
                        "name": "x",
                        "in": "query",
                        "required": true,
                        "type": "number"
                    },
                    {
                        "description": "Y",
                        "name": "y",
                        "in": "query",
                        "required": true,
                        "type": "number"
                    },
                    {
                        "description": "Radius",
                        "name": "radius",
                        "in": "query",
                        "required": true,
                        "type": "number"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.ObjectRecord"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/statistics": {
            "get": {
                "description": "Counts and quality distribution of the active objects",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Object statistics",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "plan_id",
                        "in": "query",
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/quality.Statistics"
                        }
                    }
                }
            }
        },
        "/objects/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Get an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    },
                    "400": {
                        "description": "Invalid UUID",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "404": {
                        "description": "Object not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            },
            "patch": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Update object properties",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Changed fields",
                        "name": "patch",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ObjectPatch"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    },
                    "409": {
                        "description": "Concurrent modification",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Deactivate an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Reason",
                        "name": "reason",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/annotations": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "annotations"
                ],
                "summary": "Annotate an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Annotation",
                        "name": "annotation",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.AnnotationInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/{id}/annotations/{annotationId}/resolve": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "annotations"
                ],
                "summary": "Resolve an annotation",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Annotation ID",
                        "name": "annotationId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/approve": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "lifecycle"
                ],
                "summary": "Approve an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    },
                    "422": {
                        "description": "Object is conflicted or archived",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/{id}/archive": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "lifecycle"
                ],
                "summary": "Archive an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/attachments": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validations"
                ],
                "summary": "List validation attachments",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Attachment"
                            }
                        }
                    }
                }
            }
        },
        "/objects/{id}/attachments/{attachmentId}/content": {
            "get": {
                "produces": [
                    "application/octet-stream"
                ],
                "tags": [
                    "validations"
                ],
                "summary": "Download a validation attachment",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Attachment ID",
                        "name": "attachmentId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Attachment not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/{id}/conflicts/{conflictId}/resolve": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "conflicts"
                ],
                "summary": "Resolve a conflict",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Conflict ID",
                        "name": "conflictId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Resolution note",
                        "name": "resolution",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/handlers.resolutionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/move": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Move an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "New center",
                        "name": "position",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.moveRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/quality": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Quality score of an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/objects/{id}/reject": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "lifecycle"
                ],
                "summary": "Reject an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Reason",
                        "name": "reason",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.reasonRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/required-validations": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validations"
                ],
                "summary": "Replace required validations",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Validation types",
                        "name": "types",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.requirementsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/resize": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "objects"
                ],
                "summary": "Resize an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "New size",
                        "name": "size",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.resizeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/review": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "lifecycle"
                ],
                "summary": "Start the review of an object",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ObjectRecord"
                        }
                    }
                }
            }
        },
        "/objects/{id}/validations": {
            "post": {
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validations"
                ],
                "summary": "Submit a validation result",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Object ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Validation",
                        "name": "submission",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ValidationSubmission"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "422": {
                        "description": "Illegal transition",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/plans": {
            "post": {
                "description": "Create a floor plan with optional width and height bounds",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "Create a plan",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan data",
                        "name": "plan",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.Plan"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Plan successfully created",
                        "schema": {
                            "$ref": "#/definitions/models.Plan"
                        }
                    },
                    "400": {
                        "description": "Bad request - Invalid plan data",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "List plans",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "List of plans",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Plan"
                            }
                        }
                    }
                }
            }
        },
        "/plans/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "Get a plan by ID",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Plan found",
                        "schema": {
                            "$ref": "#/definitions/models.Plan"
                        }
                    },
                    "400": {
                        "description": "Invalid UUID",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "404": {
                        "description": "Plan not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "Update a plan",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Updated plan data",
                        "name": "plan",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.Plan"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Plan successfully updated",
                        "schema": {
                            "$ref": "#/definitions/models.Plan"
                        }
                    },
                    "404": {
                        "description": "Plan not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/plans/{id}/detection-jobs": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "plans"
                ],
                "summary": "Register a detection job",
                "parameters": [
                    {
                        "description": "Tenant",
                        "name": "X-Tenant-ID",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Plan ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "format": "uuid"
                    },
                    {
                        "description": "Detection job",
                        "name": "job",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.DetectionJob"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DetectionJob"
                        }
                    },
                    "404": {
                        "description": "Plan not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "conflicts.Finding": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "severity": {
                    "type": "string"
                },
                "auto_resolvable": {
                    "type": "boolean"
                },
                "auto_resolved": {
                    "type": "boolean"
                },
                "survivor_id": {
                    "type": "string",
                    "format": "uuid"
                }
            }
        },
        "conflicts.Timings": {
            "type": "object",
            "properties": {
                "duplicates": {
                    "type": "integer"
                },
                "overlaps": {
                    "type": "integer"
                },
                "resolution": {
                    "type": "integer"
                },
                "recording": {
                    "type": "integer"
                }
            }
        },
        "geometry.BoundingBox": {
            "type": "object",
            "properties": {
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                },
                "width": {
                    "type": "number"
                },
                "height": {
                    "type": "number"
                }
            }
        },
        "geometry.PathPoint": {
            "type": "object",
            "properties": {
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                },
                "kind": {
                    "type": "string"
                }
            }
        },
        "geometry.Point": {
            "type": "object",
            "properties": {
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                }
            }
        },
        "handlers.ObjectList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ObjectRecord"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.moveRequest": {
            "type": "object",
            "properties": {
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                }
            }
        },
        "handlers.reasonRequest": {
            "type": "object",
            "properties": {
                "reason": {
                    "type": "string"
                }
            }
        },
        "handlers.requirementsRequest": {
            "type": "object",
            "properties": {
                "types": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "handlers.resizeRequest": {
            "type": "object",
            "properties": {
                "width": {
                    "type": "number"
                },
                "height": {
                    "type": "number"
                }
            }
        },
        "handlers.resolutionRequest": {
            "type": "object",
            "properties": {
                "resolution": {
                    "type": "string"
                }
            }
        },
        "models.AnalysisRequest": {
            "type": "object",
            "properties": {
                "plan_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "types": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "duplicate_tolerance": {
                    "type": "number"
                },
                "overlap_tolerance": {
                    "type": "number"
                },
                "auto_resolve": {
                    "type": "boolean"
                }
            }
        },
        "models.Annotation": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "position": {
                    "$ref": "#/definitions/geometry.Point"
                },
                "priority": {
                    "type": "string"
                },
                "created_by": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "resolved": {
                    "type": "boolean"
                },
                "resolved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "resolved_by": {
                    "type": "string"
                }
            }
        },
        "models.Attachment": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "object_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "validation_type": {
                    "type": "string"
                },
                "original_filename": {
                    "type": "string"
                },
                "content_type": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                },
                "uploaded_by": {
                    "type": "string"
                },
                "uploaded_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "storage_key": {
                    "type": "string"
                }
            }
        },
        "models.Conflict": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "severity": {
                    "type": "string"
                },
                "auto_resolvable": {
                    "type": "boolean"
                },
                "detected_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "resolved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "resolved_by": {
                    "type": "string"
                },
                "resolution": {
                    "type": "string"
                }
            }
        },
        "models.CreateObjectInput": {
            "type": "object",
            "properties": {
                "plan_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "detection_job_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "category": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "subtype": {
                    "type": "string"
                },
                "bounding_box": {
                    "$ref": "#/definitions/geometry.BoundingBox"
                },
                "center": {
                    "$ref": "#/definitions/geometry.Point"
                },
                "rotation": {
                    "type": "number"
                },
                "points": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/geometry.PathPoint"
                    }
                },
                "area": {
                    "type": "number"
                },
                "perimeter": {
                    "type": "number"
                },
                "source": {
                    "type": "string"
                },
                "confidence": {
                    "type": "number"
                },
                "criticality": {
                    "type": "string"
                },
                "required_validations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "properties": {
                    "type": "object",
                    "additionalProperties": true
                },
                "detection_metadata": {
                    "type": "object",
                    "additionalProperties": true
                },
                "parent_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "related_object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.DetectionJob": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "tenant_id": {
                    "type": "string"
                },
                "plan_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "model_name": {
                    "type": "string"
                },
                "model_version": {
                    "type": "string"
                },
                "started_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "finished_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "metadata": {
                    "type": "object",
                    "additionalProperties": true
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Modification": {
            "type": "object",
            "properties": {
                "action": {
                    "type": "string"
                },
                "actor": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "before": {
                    "type": "object",
                    "additionalProperties": true
                },
                "after": {
                    "type": "object",
                    "additionalProperties": true
                },
                "reason": {
                    "type": "string"
                },
                "automatic": {
                    "type": "boolean"
                }
            }
        },
        "models.ObjectPatch": {
            "type": "object",
            "properties": {
                "subtype": {
                    "type": "string"
                },
                "properties": {
                    "type": "object",
                    "additionalProperties": true
                },
                "confidence": {
                    "type": "number"
                },
                "criticality": {
                    "type": "string"
                },
                "parent_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "related_object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.ObjectRecord": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "tenant_id": {
                    "type": "string"
                },
                "plan_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "detection_job_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "category": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "subtype": {
                    "type": "string"
                },
                "bounding_box": {
                    "$ref": "#/definitions/geometry.BoundingBox"
                },
                "center": {
                    "$ref": "#/definitions/geometry.Point"
                },
                "rotation": {
                    "type": "number"
                },
                "points": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/geometry.PathPoint"
                    }
                },
                "area": {
                    "type": "number"
                },
                "perimeter": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "source": {
                    "type": "string"
                },
                "confidence": {
                    "type": "number"
                },
                "confidence_level": {
                    "type": "string"
                },
                "criticality": {
                    "type": "string"
                },
                "requires_review": {
                    "type": "boolean"
                },
                "manually_validated": {
                    "type": "boolean"
                },
                "validated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "validated_by": {
                    "type": "string"
                },
                "required_validations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "validation_results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ValidationResult"
                    }
                },
                "conflicts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Conflict"
                    }
                },
                "annotations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Annotation"
                    }
                },
                "modification_history": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Modification"
                    }
                },
                "parent_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "related_object_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "properties": {
                    "type": "object",
                    "additionalProperties": true
                },
                "detection_metadata": {
                    "type": "object",
                    "additionalProperties": true
                },
                "version": {
                    "type": "integer"
                },
                "is_active": {
                    "type": "boolean"
                },
                "deactivated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_by": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Plan": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "tenant_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "width": {
                    "type": "number"
                },
                "height": {
                    "type": "number"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.ValidationResult": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "actor": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "notes": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                },
                "attachments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.ValidationSubmission": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                },
                "attachments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "quality.Statistics": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "active": {
                    "type": "integer"
                },
                "by_status": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "by_category": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "by_criticality": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "requires_review": {
                    "type": "integer"
                },
                "with_open_conflicts": {
                    "type": "integer"
                },
                "manually_validated": {
                    "type": "integer"
                },
                "quality_mean": {
                    "type": "number"
                },
                "quality_stddev": {
                    "type": "number"
                },
                "quality_median": {
                    "type": "number"
                },
                "confidence_mean": {
                    "type": "number"
                }
            }
        },
        "services.AnalysisReport": {
            "type": "object",
            "properties": {
                "findings": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/conflicts.Finding"
                    }
                },
                "auto_resolved_count": {
                    "type": "integer"
                },
                "manual_review_count": {
                    "type": "integer"
                },
                "deactivated": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "timings": {
                    "$ref": "#/definitions/conflicts.Timings"
                },
                "plan_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "analyzed": {
                    "type": "integer"
                },
                "written": {
                    "type": "integer"
                },
                "skipped": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "summary": {
                    "type": "string"
                }
            }
        },
        "services.AnnotationInput": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "position": {
                    "$ref": "#/definitions/geometry.Point"
                },
                "priority": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Infrastructure Object Service API",
	Description:      "Lifecycle management of detected infrastructure objects on floor plans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
