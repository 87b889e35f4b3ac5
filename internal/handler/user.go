package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// UserHandler: обработчик HTTP-запросов для пользователей API.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, logger: logger}
}

func userNotFound(raw string) string {
	return fmt.Sprintf("Usuário não encontrado com o id: %s", raw)
}

// CreateUser: POST /api/users, единственный маршрут без авторизации.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input domain.UserInput
	if err := decodeJSON(r, &input); err != nil {
		h.logger.Warn("invalid JSON body", "endpoint", "CreateUser", "error", err)
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	user, err := h.userUseCase.CreateUser(r.Context(), input)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		case errors.Is(err, domain.ErrEmailTaken):
			respondWithError(w, http.StatusBadRequest, msgEmailTaken, h.logger)
		default:
			h.logger.Error("failed to create user", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Erro ao criar usuario.", h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := domain.UserFilter{
		Name:   r.URL.Query().Get("name"),
		Email:  r.URL.Query().Get("email"),
		Active: queryBool(r, "active"),
	}

	users, err := h.userUseCase.ListUsers(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao Listar usuários.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, users, h.logger)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
			return
		}
		h.logger.Error("failed to get user", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao buscar usuário por ID.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) UpdateUserByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
		return
	}

	var patch domain.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateUserByID(r.Context(), id, patch)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		case errors.Is(err, domain.ErrEmailTaken):
			respondWithError(w, http.StatusBadRequest, msgEmailTaken, h.logger)
		default:
			h.logger.Error("failed to update user", "id", id, "error", err)
			respondWithMessage(w, http.StatusInternalServerError, "Erro ao atualizar usuário.", h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":    "Usuário atualizado com sucesso.",
		"updateUser": user,
	}, h.logger)
}

func (h *UserHandler) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
		return
	}

	user, err := h.userUseCase.DeleteUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, userNotFound(raw), h.logger)
			return
		}
		h.logger.Error("failed to delete user", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao deletar usuário.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":    "Usuário deletado com sucesso.",
		"deleteUser": user,
	}, h.logger)
}
