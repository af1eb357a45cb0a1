// Package auth holds the Swagger document for the gatehouse authentication API.
//
// It mirrors the swag annotations on internal/auth/http. Regenerate with:
//
//	swag init -g router.go -d internal/auth/http,pkg/authsdk,pkg/jwtx -o api/auth --outputTypes go
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/gatehouse"
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
		"/.well-known/jwks.json": {
			"get": {
				"description": "Returns the JSON Web Key Set used to verify JWTs.",
				"produces": [
					"application/json"
				],
				"tags": [
					"well-known"
				],
				"summary": "Get JWKS",
				"responses": {
					"200": {
						"description": "The JSON Web Key Set",
						"schema": {
							"$ref": "#/definitions/authsdk.JWKSResponse"
						}
					}
				}
			}
		},
		"/2fa/login": {
			"post": {
				"description": "Exchanges a TOTP code for a token pair after POST /auth/login reported\ntwo_factor_required. The challenge expires after five minutes.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Two-Factor"
				],
				"summary": "Complete a two-factor login",
				"parameters": [
					{
						"description": "Email and TOTP code",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.TwoFactorLoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Token pair",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "No pending challenge or banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Invalid code",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/2fa/setup": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Generates a secret for the caller and returns the otpauth URI and a QR code link.\nTwo-factor stays disabled until a code is confirmed at POST /2fa/verify.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Two-Factor"
				],
				"summary": "Provision a TOTP secret",
				"responses": {
					"200": {
						"description": "Provisioning URI",
						"schema": {
							"$ref": "#/definitions/authsdk.TwoFactorSetupResponse"
						}
					},
					"400": {
						"description": "Banned, unverified or already enabled",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Missing or revoked access token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/2fa/verify": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Confirms the provisioned secret with a current code and turns two-factor on.",
				"consumes": [
					"application/json"
				],
				"tags": [
					"Two-Factor"
				],
				"summary": "Enable two-factor",
				"parameters": [
					{
						"description": "Current TOTP code",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.TwoFactorCodeRequest"
						}
					}
				],
				"responses": {
					"204": {
						"description": "Two-factor enabled"
					},
					"401": {
						"description": "Invalid code or missing access token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth": {
			"get": {
				"description": "Redeems the confirmation token sent at registration.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Confirm email address",
				"parameters": [
					{
						"description": "Confirmation token",
						"name": "token",
						"in": "query",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "Token pair",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "Unknown or banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Malformed, expired or used token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/access": {
			"put": {
				"description": "Exchanges the refresh token in X-Refresh-Token for a new access token.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "New access token",
				"parameters": [
					{
						"description": "Refresh token",
						"name": "X-Refresh-Token",
						"in": "header",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "Access token",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "Banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Unknown or expired refresh token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/change-email": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Sends a four digit code to the new address. The code is valid for one hour.",
				"consumes": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Request email change",
				"parameters": [
					{
						"description": "New address",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.ChangeEmailRequest"
						}
					}
				],
				"responses": {
					"202": {
						"description": "Code sent"
					},
					"400": {
						"description": "Invalid or taken address",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Missing or revoked access token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/confirm-change-email": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Redeems the emailed code, switches the account address and returns\ntokens for the new address. The presented access token is revoked.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Confirm email change",
				"parameters": [
					{
						"description": "New address and code",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.ConfirmChangeEmailRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Token pair",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "Invalid code",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Missing or revoked access token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/forgot-password": {
			"post": {
				"description": "Emails a password reset token to a local account.",
				"consumes": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Forgot password",
				"parameters": [
					{
						"description": "Account email",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.ForgotPasswordRequest"
						}
					}
				],
				"responses": {
					"202": {
						"description": "Reset token sent"
					},
					"400": {
						"description": "Unknown, banned or federated account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"description": "Returns a token pair, or two_factor_required when the account has 2FA enabled.\nIn that case the code must be sent to POST /2fa/login within five minutes.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Log in with email and password",
				"parameters": [
					{
						"description": "Credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Token pair or pending two-factor challenge",
						"schema": {
							"$ref": "#/definitions/authsdk.LoginResponse"
						}
					},
					"400": {
						"description": "Invalid credentials or banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"429": {
						"description": "Too many attempts",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Revokes the presented access token. Refresh tokens are not affected.",
				"tags": [
					"Auth"
				],
				"summary": "Log out",
				"responses": {
					"204": {
						"description": "Token revoked"
					},
					"401": {
						"description": "Missing or revoked access token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/refresh": {
			"put": {
				"description": "Returns a new access token and a new refresh token. The presented\nrefresh token stays valid until it expires.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Rotate refresh token",
				"parameters": [
					{
						"description": "Refresh token",
						"name": "X-Refresh-Token",
						"in": "header",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "Token pair",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "Banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Unknown or expired refresh token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/register": {
			"post": {
				"description": "Creates a local account, sends an email confirmation token and signs the user in.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Register",
				"parameters": [
					{
						"description": "Account details",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.RegisterRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Token pair",
						"schema": {
							"$ref": "#/definitions/authsdk.TokenResponse"
						}
					},
					"400": {
						"description": "Invalid input or email already registered",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"503": {
						"description": "Session store unavailable",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/reset-password": {
			"post": {
				"description": "Redeems a reset token. A valid bearer token sent along is revoked as well.",
				"consumes": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Reset password",
				"parameters": [
					{
						"description": "Reset token and new password",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.ResetPasswordRequest"
						}
					}
				],
				"responses": {
					"204": {
						"description": "Password changed"
					},
					"400": {
						"description": "Password too short or banned account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Malformed, expired or used token",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/internal/users/{email}": {
			"get": {
				"description": "Returns the stored credential record, including the password hash and TOTP secret.\nRequires the shared secret in the PrivateSecret header.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Internal"
				],
				"summary": "Look up user credentials",
				"parameters": [
					{
						"description": "Shared service secret",
						"name": "PrivateSecret",
						"in": "header",
						"required": true,
						"type": "string"
					},
					{
						"description": "Account email",
						"name": "email",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "Credential record",
						"schema": {
							"$ref": "#/definitions/authsdk.UserCredentials"
						}
					},
					"400": {
						"description": "Unknown account",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "Missing or wrong secret",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/livez": {
			"get": {
				"description": "Liveness probe endpoint returning basic service health status, uptime, and version information\nThis endpoint always returns 200 OK if the service is running",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Health Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		},
		"/login/oauth2/code/{provider}": {
			"get": {
				"description": "Completes the handshake. Both handshake cookies are always cleared. On success\nthe browser is sent to the stored redirect with ?token=, otherwise to the\nfailure page with ?error=.",
				"tags": [
					"OAuth2"
				],
				"summary": "Federated login callback",
				"parameters": [
					{
						"description": "google, github or discord",
						"name": "provider",
						"in": "path",
						"required": true,
						"type": "string"
					},
					{
						"description": "Authorization code",
						"name": "code",
						"in": "query",
						"required": true,
						"type": "string"
					},
					{
						"description": "Handshake state",
						"name": "state",
						"in": "query",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"302": {
						"description": "Redirect to the client"
					}
				}
			}
		},
		"/oauth2/authorization/{provider}": {
			"get": {
				"description": "Stores the handshake in the oauth2_auth_request and redirect_uri cookies\nand redirects the browser to the provider.",
				"tags": [
					"OAuth2"
				],
				"summary": "Start federated login",
				"parameters": [
					{
						"description": "google, github or discord",
						"name": "provider",
						"in": "path",
						"required": true,
						"type": "string"
					},
					{
						"description": "Where to send the browser afterwards",
						"name": "redirect_uri",
						"in": "query",
						"required": false,
						"type": "string"
					}
				],
				"responses": {
					"302": {
						"description": "Redirect to provider"
					},
					"400": {
						"description": "Unsupported provider or redirect not allowed",
						"schema": {
							"$ref": "#/definitions/authsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"description": "Readiness probe endpoint returning service health status and checks for critical dependencies\nIncludes uptime, version, and status of database, session cache, and signer components",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Readiness Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version, checks",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					},
					"503": {
						"description": "status, uptime, version, checks - service not ready",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"authsdk.ChangeEmailRequest": {
			"type": "object",
			"properties": {
				"new_email": {
					"type": "string",
					"example": "alice@new.example.com"
				}
			}
		},
		"authsdk.ConfirmChangeEmailRequest": {
			"type": "object",
			"properties": {
				"new_email": {
					"type": "string",
					"example": "alice@new.example.com"
				},
				"code": {
					"type": "string",
					"example": "4821"
				}
			}
		},
		"authsdk.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string",
					"example": "invalid_credentials",
					"description": "Error code"
				},
				"error_description": {
					"type": "string"
				}
			}
		},
		"authsdk.ForgotPasswordRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "alice@example.com"
				}
			}
		},
		"authsdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"cache": {
					"type": "string"
				},
				"signer": {
					"type": "string"
				}
			}
		},
		"authsdk.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"$ref": "#/definitions/authsdk.HealthChecks"
				}
			}
		},
		"authsdk.JWKSResponse": {
			"type": "object",
			"properties": {
				"keys": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/jwtx.JWK"
					}
				}
			}
		},
		"authsdk.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "alice@example.com"
				},
				"password": {
					"type": "string",
					"example": "correct horse battery"
				}
			}
		},
		"authsdk.LoginResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string",
					"example": "eyJhbGciOiJSUzUxMiIs..."
				},
				"refresh_token": {
					"type": "string",
					"example": "9f86d081884c7d659a2feaa0c55ad015..."
				},
				"token_type": {
					"type": "string",
					"example": "Bearer"
				},
				"expires_in": {
					"type": "integer",
					"example": 900
				},
				"two_factor_required": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"authsdk.RegisterRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "alice@example.com"
				},
				"username": {
					"type": "string",
					"example": "alice"
				},
				"password": {
					"type": "string",
					"example": "correct horse battery"
				}
			}
		},
		"authsdk.ResetPasswordRequest": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"new_password": {
					"type": "string"
				}
			}
		},
		"authsdk.TokenResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string",
					"example": "eyJhbGciOiJSUzUxMiIs..."
				},
				"refresh_token": {
					"type": "string",
					"example": "9f86d081884c7d659a2feaa0c55ad015..."
				},
				"token_type": {
					"type": "string",
					"example": "Bearer"
				},
				"expires_in": {
					"type": "integer",
					"example": 900
				}
			}
		},
		"authsdk.TwoFactorCodeRequest": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"example": "123456"
				}
			}
		},
		"authsdk.TwoFactorLoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "alice@example.com"
				},
				"code": {
					"type": "string",
					"example": "123456"
				}
			}
		},
		"authsdk.TwoFactorSetupResponse": {
			"type": "object",
			"properties": {
				"otpauth_url": {
					"type": "string"
				},
				"qr_code_url": {
					"type": "string"
				}
			}
		},
		"authsdk.UserCredentials": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"password_hash": {
					"type": "string"
				},
				"auth_provider": {
					"type": "string"
				},
				"verified": {
					"type": "boolean"
				},
				"banned": {
					"type": "boolean"
				},
				"two_factor_enabled": {
					"type": "boolean"
				},
				"two_factor_secret": {
					"type": "string"
				}
			}
		},
		"jwtx.JWK": {
			"type": "object",
			"properties": {
				"kty": {
					"type": "string"
				},
				"use": {
					"type": "string"
				},
				"alg": {
					"type": "string"
				},
				"kid": {
					"type": "string"
				},
				"n": {
					"type": "string"
				},
				"e": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT access token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Gatehouse Authentication Service API",
	Description:      "Account, session and federated login service issuing RS512-signed JWT access tokens\nand opaque refresh tokens.\n\nPublic keys for local verification are published at /.well-known/jwks.json.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
