package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrLockContention indica que la operación no pudo tomar sus bloqueos tras agotar los reintentos.
	// Es transitorio: el cliente puede reintentar.
	ErrLockContention = errors.New("recurso bloqueado por otra operación, reintente")
	// ErrPaymentExceedsBalance el abono supera el saldo pendiente.
	ErrPaymentExceedsBalance = errors.New("el pago excede el saldo pendiente")
	// ErrInvalidState la entidad no está en un estado que permita la operación (borrador ya completado, etc.).
	ErrInvalidState = errors.New("estado inválido para la operación")
)
