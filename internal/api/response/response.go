// Package response padroniza a escrita de respostas JSON e a leitura de payloads
// para todos os handlers da API.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// maxBodyBytes limita o tamanho dos payloads aceitos.
const maxBodyBytes = 1 << 20

// JSON escreve data como JSON com o status informado. data nil produz corpo vazio.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && log != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para o corpo padronizado {code, category, message, errors}.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if log != nil {
		if status >= http.StatusInternalServerError {
			log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
		} else {
			log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})
		}
	}

	JSON(w, nil, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
		Errors:   apperror.FieldsOf(err),
	})
}

// Handle é o atalho usado pelos handlers: erro -> Error, sucesso -> JSON com successStatus.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}
	JSON(w, log, successStatus, data)
}

// Decode lê o corpo JSON em dst, rejeitando campos desconhecidos e payloads grandes demais.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.NewValidationError("O corpo da requisição não pode ser vazio.")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
		case errors.As(err, &typeErr):
			return apperror.NewFieldValidationError("Payload inválido. Tipo incorreto.",
				apperror.FieldError{Field: typeErr.Field, Message: fmt.Sprintf("deve ser do tipo %s", typeErr.Type)})
		case errors.As(err, &maxErr):
			return apperror.NewValidationError("Payload excede o tamanho máximo permitido.")
		default:
			return apperror.NewValidationError(fmt.Sprintf("Payload inválido: %s", err.Error()))
		}
	}
	return nil
}

// ListParams extrai page, limit, search, sortBy e order da query string.
func ListParams(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	p := domain.ListParams{
		Page:   atoi(q.Get("page")),
		Limit:  atoi(q.Get("limit")),
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Order:  domain.SortOrder(q.Get("order")),
	}
	p.Normalize()
	return p
}

// IntQuery lê um inteiro da query string, retornando def quando ausente ou inválido.
func IntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// BoolQuery lê um booleano da query string.
func BoolQuery(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
