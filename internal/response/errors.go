package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation             ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload         ErrCode = "INVALID_PAYLOAD"
	ErrInvalidSelectionFormat ErrCode = "INVALID_SELECTION_FORMAT"
	ErrInvalidLogo            ErrCode = "INVALID_LOGO"
	ErrFileTooLarge           ErrCode = "FILE_TOO_LARGE"

	// ─── Question store ────────────────────────────────────────────────
	ErrStoreUnavailable  ErrCode = "STORE_UNAVAILABLE"
	ErrStoreReadOnly     ErrCode = "STORE_READ_ONLY"
	ErrSchemaMismatch    ErrCode = "SCHEMA_MISMATCH"
	ErrUnknownQuestionID ErrCode = "UNKNOWN_QUESTION_ID"

	// ─── Documents ─────────────────────────────────────────────────────
	ErrNothingSelected ErrCode = "NOTHING_SELECTED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Falha na validação. Verifique os dados informados."
	case ErrInvalidPayload:
		return "Conteúdo da requisição inválido."
	case ErrInvalidSelectionFormat:
		return "A ordem das questões deve ser uma lista de números separados por vírgula."
	case ErrInvalidLogo:
		return "O logotipo enviado não é uma imagem válida."
	case ErrFileTooLarge:
		return "O arquivo excede o tamanho máximo permitido."

	// ─── Question store ────────────────────────────────────────────────
	case ErrStoreUnavailable:
		return "Não foi possível acessar o banco de questões. Tente novamente mais tarde."
	case ErrStoreReadOnly:
		return "O banco de questões configurado não aceita novos cadastros."
	case ErrSchemaMismatch:
		return "A planilha não possui as colunas esperadas."
	case ErrUnknownQuestionID:
		return "Algumas questões selecionadas não foram encontradas e foram ignoradas."

	// ─── Documents ─────────────────────────────────────────────────────
	case ErrNothingSelected:
		return "Nenhuma questão selecionada."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente em instantes."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Erro interno do servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
