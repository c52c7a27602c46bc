package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrLoginDisabled      ErrCode = "LOGIN_DISABLED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidStatus  ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrProblemNotFound     ErrCode = "PROBLEM_NOT_FOUND"
	ErrInstructionNotFound ErrCode = "INSTRUCTION_NOT_FOUND"
	ErrAdminNotFound       ErrCode = "ADMIN_NOT_FOUND"
	ErrConflict            ErrCode = "CONFLICT"
	ErrAdminExists         ErrCode = "ADMIN_EXISTS"
	ErrLastAdmin           ErrCode = "LAST_ADMIN"
	ErrActionForbidden     ErrCode = "ACTION_FORBIDDEN"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileEmpty    ErrCode = "FILE_EMPTY"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Nieprawidłowa nazwa użytkownika lub hasło."
	case ErrLoginDisabled:
		return "Logowanie hasłem jest wyłączone."
	case ErrTokenRequired:
		return "Wymagany token uwierzytelniający."
	case ErrTokenInvalid:
		return "Token uwierzytelniający jest nieprawidłowy lub wygasł."
	case ErrTokenRevoked:
		return "Sesja została zakończona. Zaloguj się ponownie."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Brak uprawnień do tego zasobu."
	case ErrAdminAccessOnly:
		return "Ta operacja jest dostępna tylko dla administratorów."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Walidacja nie powiodła się. Sprawdź wprowadzone dane."
	case ErrInvalidPayload:
		return "Nieprawidłowa treść żądania."
	case ErrInvalidStatus:
		return "Nieprawidłowy status zgłoszenia."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Nie znaleziono zasobu."
	case ErrProblemNotFound:
		return "Problem nie znaleziony."
	case ErrInstructionNotFound:
		return "Instrukcja nie znaleziona."
	case ErrAdminNotFound:
		return "Administrator nie znaleziony."
	case ErrConflict:
		return "Zasób już istnieje."
	case ErrAdminExists:
		return "Administrator już istnieje."
	case ErrLastAdmin:
		return "Nie można usunąć ostatniego administratora."
	case ErrActionForbidden:
		return "Ta operacja jest niedozwolona."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Wymagany jest plik."
	case ErrFileEmpty:
		return "Przesłany plik jest pusty."
	case ErrFileTooLarge:
		return "Rozmiar pliku przekracza limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Zbyt wiele żądań. Spróbuj ponownie później."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Wystąpił wewnętrzny błąd serwera."
	default:
		return "Wystąpił nieoczekiwany błąd."
	}
}
