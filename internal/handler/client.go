package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// ClientHandler: обработчик HTTP-запросов для клиентов.
type ClientHandler struct {
	clientUseCase usecase.ClientUseCase
	logger        *slog.Logger
}

func NewClientHandler(uc usecase.ClientUseCase, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{clientUseCase: uc, logger: logger}
}

func clientNotFound(raw string) string {
	return fmt.Sprintf("Cliente não encontrado com o id: %s", raw)
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var input domain.ClientInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	client, err := h.clientUseCase.CreateClient(r.Context(), input)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		case errors.Is(err, domain.ErrEmailTaken):
			respondWithError(w, http.StatusBadRequest, msgEmailTaken, h.logger)
		default:
			h.logger.Error("failed to create client", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Erro ao criar cliente.", h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, client, h.logger)
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	filter := domain.ClientFilter{
		Name:   r.URL.Query().Get("name"),
		Email:  r.URL.Query().Get("email"),
		Active: queryBool(r, "active"),
	}

	clients, err := h.clientUseCase.ListClients(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list clients", "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao listar clientes.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, clients, h.logger)
}

func (h *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
		return
	}

	client, err := h.clientUseCase.GetClientByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
			return
		}
		h.logger.Error("failed to get client", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao buscar cliente por ID.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, client, h.logger)
}

func (h *ClientHandler) UpdateClientByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
		return
	}

	var patch domain.ClientPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	client, err := h.clientUseCase.UpdateClientByID(r.Context(), id, patch)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		case errors.Is(err, domain.ErrEmailTaken):
			respondWithError(w, http.StatusBadRequest, msgEmailTaken, h.logger)
		default:
			h.logger.Error("failed to update client", "id", id, "error", err)
			respondWithMessage(w, http.StatusInternalServerError, "Erro ao atualizar cliente.", h.logger)
		}
		return
	}

	// ключ updateClint сохранен как часть публичного API
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Cliente atualizado com sucesso.",
		"updateClint": client,
	}, h.logger)
}

func (h *ClientHandler) DeleteClientByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
		return
	}

	client, err := h.clientUseCase.DeleteClientByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, clientNotFound(raw), h.logger)
			return
		}
		h.logger.Error("failed to delete client", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao deletar cliente.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":      "Cliente deletado com sucesso.",
		"deleteClient": client,
	}, h.logger)
}
