// Package api serves characters over API Gateway as an AWS Lambda function.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/aristotle/character"
)

// Handler answers read-only character requests:
//
//	GET /characters        all characters
//	GET /characters/{id}   one character, 404 if absent
//
// An id that misses exactly is matched case-insensitively against every
// stored id, at the cost of a table scan.
type Handler struct {
	repo   *character.Repository
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(repo *character.Repository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Handle processes an API Gateway proxy request.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != http.MethodGet {
		return respond(http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	}

	id, ok := characterID(req)
	if !ok {
		return respond(http.StatusNotFound, errorBody{Error: "Not found"})
	}
	if id == "" {
		return h.list(ctx)
	}
	return h.get(ctx, id)
}

func (h *Handler) list(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	characters, err := h.repo.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list characters", "error", err)
		return respond(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
	return respond(http.StatusOK, characters)
}

func (h *Handler) get(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	c, found, err := h.repo.Get(ctx, id)
	// Fall back to a case-insensitive match over every stored id,
	// e.g. "lady_macbeth" finds "Lady_Macbeth"
	if err == nil && !found {
		c, found, err = h.findFold(ctx, id)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get character", "id", id, "error", err)
		return respond(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
	if !found {
		h.logger.InfoContext(ctx, "character not found", "id", id)
		return respond(http.StatusNotFound, errorBody{Error: "Character not found"})
	}
	return respond(http.StatusOK, c)
}

// findFold scans the table for a character whose id equals id ignoring case.
func (h *Handler) findFold(ctx context.Context, id string) (character.Character, bool, error) {
	characters, err := h.repo.List(ctx)
	if err != nil {
		return character.Character{}, false, err
	}
	for _, c := range characters {
		if strings.EqualFold(c.ID, id) {
			return c, true, nil
		}
	}
	return character.Character{}, false, nil
}

// characterID extracts the {id} path parameter. ok is false when the path is
// not under /characters.
func characterID(req events.APIGatewayProxyRequest) (id string, ok bool) {
	if id, ok := req.PathParameters["id"]; ok {
		return id, true
	}

	path := strings.Trim(req.Path, "/")
	path = strings.TrimPrefix(path, "api/")
	switch {
	case path == "characters":
		return "", true
	case strings.HasPrefix(path, "characters/"):
		id = strings.TrimPrefix(path, "characters/")
		if id == "" || strings.Contains(id, "/") {
			return "", false
		}
		return id, true
	}
	return "", false
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
