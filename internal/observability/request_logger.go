package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/pkg/util/errorutil"
)

// IdentityLocalKey is the fiber locals key carrying the caller email for logging.
const IdentityLocalKey = "log_identity"

// RequestLogger logs every request and feeds the request counters.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = errorutil.ToDomainError(err).HTTPStatus
			}
		}
		metrics.RecordRequest(c.Route().Path, c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		}
		if identity, ok := c.Locals(IdentityLocalKey).(string); ok && identity != "" {
			fields = append(fields, zap.String("identity", identity))
		}
		logger.Info("request", fields...)
		return err
	}
}
