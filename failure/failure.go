// Package failure classifica sinais de falha embutidos em respostas que o SDK
// considera bem-sucedidas: entradas rejeitadas em lotes, status code fora da
// faixa 2xx e erros de função reportados pelo Lambda.
//
// Erros de transporte do SDK nunca passam por aqui; eles são devolvidos sem
// alteração pelos clientes.
package failure

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Códigos estáveis expostos por Code().
const (
	CodeFailedEntries = "event_bus_failed_entries"
	CodeStatusCode    = "err_lambda_status_code"
	CodeFunctionError = "err_lambda_function"
)

// FailedEntriesError indica que parte das entradas de um lote falhou.
type FailedEntriesError struct {
	FailedEntryCount int32
	// Records contém todas as entradas da resposta, normalizadas, na ordem do pedido.
	Records []map[string]any
}

func (e *FailedEntriesError) Error() string {
	return fmt.Sprintf("Failed to send %d events", e.FailedEntryCount)
}

func (e *FailedEntriesError) Code() string { return CodeFailedEntries }

// StatusCodeError indica um status code de invocação fora de [200,300).
type StatusCodeError struct {
	StatusCode int32
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("Status code error: %d", e.StatusCode)
}

func (e *StatusCodeError) Code() string { return CodeStatusCode }

// FunctionError carrega o payload de erro devolvido pela função.
type FunctionError struct {
	ErrorType    string
	ErrorMessage string
	Data         map[string]any
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("Lambda function error: %s<%s>", e.ErrorType, e.ErrorMessage)
}

func (e *FunctionError) Code() string { return CodeFunctionError }

// CheckFailedEntries retorna *FailedEntriesError quando count > 0.
func CheckFailedEntries(count int32, records []map[string]any) error {
	if count <= 0 {
		return nil
	}
	return &FailedEntriesError{FailedEntryCount: count, Records: records}
}

// CheckStatusCode aceita status ausente (nil) e qualquer valor em [200,300).
func CheckStatusCode(statusCode *int32) error {
	if statusCode == nil {
		return nil
	}
	if code := *statusCode; code < 200 || code >= 300 {
		return &StatusCodeError{StatusCode: code}
	}
	return nil
}

// CheckFunctionError decodifica o payload quando o marcador de erro está presente.
func CheckFunctionError(marker *string, payload []byte) error {
	if marker == nil || *marker == "" {
		return nil
	}

	fnErr := &FunctionError{Data: map[string]any{}}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &fnErr.Data); err != nil {
			// payload não-JSON: o marcador ainda é a informação principal
			fnErr.ErrorType = *marker
			fnErr.ErrorMessage = string(payload)
			return fnErr
		}
	}

	fnErr.ErrorType, _ = fnErr.Data["errorType"].(string)
	fnErr.ErrorMessage, _ = fnErr.Data["errorMessage"].(string)
	if fnErr.ErrorType == "" {
		fnErr.ErrorType = *marker
	}
	return fnErr
}
