package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"contención", domain.ErrLockContention, fiber.StatusServiceUnavailable, "LOCK_CONTENTION", domain.ErrLockContention.Error()},
		{"validación envuelta", fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION", "entrada inválida: cantidad"},
		{"estado", domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE", domain.ErrInvalidState.Error()},
		{"desconocido", errors.New("pgx: conexión rota"), fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, logger.Nop(), tt.err) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			if tt.wantStatus == fiber.StatusServiceUnavailable {
				assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
			}
		})
	}
}

func TestErrorMapping_EveryErrorIsDistinct(t *testing.T) {
	seen := make(map[error]bool, len(errorMapping))
	for _, m := range errorMapping {
		require.NotNil(t, m.err)
		assert.False(t, seen[m.err], m.code)
		seen[m.err] = true
	}
}
