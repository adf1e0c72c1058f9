// Package docs holds the swagger specification registered with the
// swag runtime. Regenerate with `swag init -g cmd/server/main.go`.
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
        "/api/register": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Register a new user"
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Log in and receive a session cookie"
            }
        },
        "/api/logout": {
            "post": {
                "tags": ["Accounts"],
                "summary": "End the current session"
            }
        },
        "/api/start_quiz": {
            "post": {
                "tags": ["Quiz"],
                "summary": "Start a quiz"
            }
        },
        "/api/next_question": {
            "get": {
                "tags": ["Quiz"],
                "summary": "Next question"
            }
        },
        "/api/submit_answer": {
            "post": {
                "tags": ["Quiz"],
                "summary": "Submit an answer"
            }
        },
        "/api/quiz_results": {
            "get": {
                "tags": ["Quiz"],
                "summary": "Quiz results"
            }
        },
        "/api/previous_records": {
            "get": {
                "tags": ["Insights"],
                "summary": "Attempt history"
            }
        },
        "/api/weak_areas": {
            "get": {
                "tags": ["Insights"],
                "summary": "Weak areas"
            }
        },
        "/api/weak_areas_latest": {
            "get": {
                "tags": ["Insights"],
                "summary": "Weak areas with watch state"
            }
        },
        "/api/leaderboard": {
            "get": {
                "tags": ["Insights"],
                "summary": "Leaderboard"
            }
        },
        "/api/get_quiz_questions": {
            "get": {
                "tags": ["Retake"],
                "summary": "Retake questions"
            }
        },
        "/api/submit_quiz": {
            "post": {
                "tags": ["Retake"],
                "summary": "Submit a practice round"
            }
        },
        "/api/submit_quiz_re": {
            "post": {
                "tags": ["Retake"],
                "summary": "Submit a retake round"
            }
        },
        "/api/track_video": {
            "post": {
                "tags": ["Videos"],
                "summary": "Track a video"
            }
        },
        "/api/video_history": {
            "get": {
                "tags": ["Videos"],
                "summary": "Video watch history"
            }
        },
        "/api/reset_data": {
            "post": {
                "tags": ["Maintenance"],
                "summary": "Reset own data"
            }
        },
        "/api/clear_all_data": {
            "post": {
                "tags": ["Maintenance"],
                "summary": "Clear all data"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AdaptIQ API",
	Description:      "Adaptive quiz backend — sessions, adaptive question delivery, weak-area video recommendations, and leaderboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
