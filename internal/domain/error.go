package domain

import apperror "warehub/internal/errors"

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int                   `json:"code" example:"400"`
	Category string                `json:"category" example:"VALIDATION_ERROR"`
	Message  string                `json:"message" example:"Erro de Validação: dados do armazém inválidos."`
	Errors   []apperror.FieldError `json:"errors,omitempty"`
}
