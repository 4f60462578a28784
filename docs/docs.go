// Package docs registers the Swagger 2.0 document served under /swagger.
//
// The document is maintained by hand in the layout swag emits. Keep it in
// sync with the @-annotations on the handlers in internal/api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "https://github.com/guttosm/dealpulse",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/dealpulse",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/analysis": {
            "post": {
                "description": "Streams progress, result and error events as Server-Sent Events. Each frame is \"data: <JSON>\\n\\n\".",
                "produces": [
                    "text/event-stream"
                ],
                "tags": [
                    "analysis"
                ],
                "summary": "Run an institutional accumulation analysis",
                "parameters": [
                    {
                        "type": "integer",
                        "example": 5,
                        "description": "Business days to analyze (1-30)",
                        "name": "days",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Event stream; see ProgressPayload and ErrorPayload for the other frames",
                        "schema": {
                            "$ref": "#/definitions/dto.ResultPayload"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/analysis/ws": {
            "get": {
                "description": "Upgrades the connection and sends one JSON text message per event, then closes normally.",
                "tags": [
                    "analysis"
                ],
                "summary": "Run an analysis over WebSocket",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Business days to analyze (1-30)",
                        "name": "days",
                        "in": "query"
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/runs": {
            "get": {
                "description": "Returns journal entries, newest first. Empty when the journal is disabled.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "runs"
                ],
                "summary": "List recent analysis runs",
                "parameters": [
                    {
                        "type": "integer",
                        "example": 20,
                        "description": "Maximum entries (1-100)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.RunResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the run journal (when enabled) is reachable",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.AccumulationResponse": {
            "type": "object",
            "properties": {
                "avgPrice": {
                    "type": "number",
                    "example": 13.33
                },
                "symbol": {
                    "type": "string",
                    "example": "TCS"
                },
                "totalBuyQuantity": {
                    "type": "number",
                    "example": 150
                },
                "totalBuyValue": {
                    "type": "number",
                    "example": 2000
                },
                "transactions": {
                    "type": "integer",
                    "example": 2
                }
            }
        },
        "dto.ErrorPayload": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "analysis failed"
                },
                "type": {
                    "type": "string",
                    "example": "error"
                }
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "days must be between 1 and 30"
                },
                "message": {
                    "type": "string",
                    "example": "invalid days parameter"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "dto.ProgressPayload": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "Fetching data for 16-10-2026..."
                },
                "type": {
                    "type": "string",
                    "example": "progress"
                }
            }
        },
        "dto.ResultPayload": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccumulationResponse"
                    }
                },
                "type": {
                    "type": "string",
                    "example": "result"
                }
            }
        },
        "dto.RunResponse": {
            "type": "object",
            "properties": {
                "days": {
                    "type": "integer",
                    "example": 5
                },
                "deal_count": {
                    "type": "integer",
                    "example": 214
                },
                "error": {
                    "type": "string"
                },
                "finished_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string",
                    "example": "5b0c2f7e-7c1a-4c8e-9d6f-0a4c3b8f1e22"
                },
                "result_count": {
                    "type": "integer",
                    "example": 10
                },
                "started_at": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "example": "completed"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "dealpulse API",
	Description:      "Institutional accumulation analysis over NSE bulk-deal archives.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
