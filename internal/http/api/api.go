package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

// APIError is rendered as {"error": Message} with status Code.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Created answers 201 with Body.
type Created struct {
	Body any
}

// File answers with raw bytes as an attachment instead of JSON.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	switch v := result.(type) {
	case Created:
		ctx.JSON(http.StatusCreated, v.Body)
	case File:
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", v.Name))
		ctx.Data(http.StatusOK, v.ContentType, v.Data)
	default:
		ctx.JSON(http.StatusOK, result)
	}
}
