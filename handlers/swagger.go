package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>TechLab Challenge API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the public endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "TechLab Challenge 2024 3q Backend", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Error": { "type": "object", "properties": { "message": {"type":"string"}, "error": {"type":"string"} }, "required": ["message"] },
      "AccessToken": { "type": "object", "properties": { "access_token": {"type":"string"}, "token_type": {"type":"string","enum":["Bearer"]}, "expires_in": {"type":"integer"} } },
      "Post": { "type": "object", "properties": { "id": {"type":"string"}, "userId": {"type":"string"}, "title": {"type":"string"}, "body": {"type":"string"} } },
      "Comment": { "type": "object", "properties": { "id": {"type":"string"}, "userId": {"type":"string"}, "postId": {"type":"string"}, "body": {"type":"string"} } },
      "User": { "type": "object", "properties": {
        "id": {"type":"string"}, "username": {"type":"string"}, "email": {"type":"string"},
        "profile": {"type":"string","enum":["sudo","standard"]},
        "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"},
        "deletedAt": {"type":"string","format":"date-time"},
        "posts": {"type":"array","items":{"$ref":"#/components/schemas/Post"}},
        "comments": {"type":"array","items":{"$ref":"#/components/schemas/Comment"}} } },
      "UserPatch": { "type": "object", "properties": { "username": {"type":"string"}, "email": {"type":"string"}, "password": {"type":"string"}, "profile": {"type":"string","enum":["sudo","standard"]} } }
    }
  },
  "paths": {
    "/auth/sign-in": {
      "post": {
        "summary": "Sign in with username or email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}},"required":["username","password"]}}}},
        "responses": {
          "200": { "description": "access token", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/AccessToken"} } } },
          "400": { "description": "malformed body" },
          "401": { "description": "invalid password" },
          "404": { "description": "user not found" },
          "500": { "description": "invalid profile or token issuance failure" }
        }
      }
    },
    "/users/{userId}": {
      "parameters": [ { "name": "userId", "in": "path", "required": true, "schema": {"type":"string"} } ],
      "get": { "summary": "Get an active user with posts and comments", "responses": { "200": { "description": "user", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/User"} } } }, "404": { "description": "not found" }, "500": { "description": "fetch failed" } } },
      "patch": { "summary": "Partially update a user", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/UserPatch"} } } }, "responses": { "200": { "description": "updated user" }, "400": { "description": "update failed" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Soft-delete a user", "responses": { "200": { "description": "user as it was before deletion" }, "400": { "description": "delete failed" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition format" } } } }
  }
}`
