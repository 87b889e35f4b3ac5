package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// SaleHandler: обработчик HTTP-запросов для продаж.
type SaleHandler struct {
	saleUseCase usecase.SaleUseCase
	logger      *slog.Logger
}

func NewSaleHandler(uc usecase.SaleUseCase, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{saleUseCase: uc, logger: logger}
}

func saleNotFound(raw string) string {
	return fmt.Sprintf("Venda não encontrada com o id: %s", raw)
}

func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var input domain.SaleInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	sale, err := h.saleUseCase.CreateSale(r.Context(), input)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		case errors.Is(err, usecase.ErrClientUnavailable):
			respondWithMessage(w, http.StatusNotFound, fmt.Sprintf(
				"Cliente não encontrado com o id: %d, não é possível cadastrar a venda.", input.ClientID.ID(),
			), h.logger)
		default:
			h.logger.Error("failed to create sale", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Erro ao criar venda.", h.logger)
		}
		return
	}

	if user, ok := UserFromContext(r.Context()); ok {
		h.logger.Info("sale created", "id", sale.ID, "client_id", sale.ClientID, "user_id", user.ID)
	}
	respondWithJSON(w, http.StatusCreated, sale, h.logger)
}

func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter := domain.SaleFilter{
		ClientID: queryUint(r, "clientId"),
		Active:   queryBool(r, "active"),
	}

	sales, err := h.saleUseCase.ListSales(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list sales", "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao listar vendas.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, sales, h.logger)
}

func (h *SaleHandler) GetSaleByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, saleNotFound(raw), h.logger)
		return
	}

	sale, err := h.saleUseCase.GetSaleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, saleNotFound(raw), h.logger)
			return
		}
		h.logger.Error("failed to get sale", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao buscar vendas por Id.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, sale, h.logger)
}

func (h *SaleHandler) UpdateSaleByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, saleNotFound(raw), h.logger)
		return
	}

	var patch domain.SalePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON, h.logger)
		return
	}

	sale, err := h.saleUseCase.UpdateSaleByID(r.Context(), id, patch)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondWithMessage(w, http.StatusNotFound, saleNotFound(raw), h.logger)
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Detail, h.logger)
		default:
			h.logger.Error("failed to update sale", "id", id, "error", err)
			respondWithMessage(w, http.StatusInternalServerError, "Erro ao atualizar venda.", h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Venda atualizada com sucesso.",
		"updateSales": sale,
	}, h.logger)
}

// DeleteSaleByID повторное удаление дает 404, в отличие от пользователей и клиентов
func (h *SaleHandler) DeleteSaleByID(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r)
	notFound := fmt.Sprintf("Venda não encontrada ou deletada, com o id: %s", raw)
	if !ok {
		respondWithMessage(w, http.StatusNotFound, notFound, h.logger)
		return
	}

	sale, err := h.saleUseCase.DeleteSaleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithMessage(w, http.StatusNotFound, notFound, h.logger)
			return
		}
		h.logger.Error("failed to delete sale", "id", id, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Erro ao deletar venda.", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Venda deletada com sucesso.",
		"deleteSales": sale,
	}, h.logger)
}
