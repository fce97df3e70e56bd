package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldops/backend/internal/interfaces/http/dto"
)

// TenantConfig controls tenant resolution
type TenantConfig struct {
	// HeaderName is the header carrying the tenant identifier
	HeaderName string
	// DefaultTenantID is used when no tenant header is present.
	// Leave zero to make the header mandatory.
	DefaultTenantID uuid.UUID
}

// DefaultTenantConfig returns the standard tenant resolution configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{HeaderName: "X-Tenant-ID"}
}

// TenantWithConfig resolves the tenant for each request from the configured
// header and stores it in the gin context under "tenant_id". Requests without
// a resolvable tenant are rejected with 400.
func TenantWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(cfg.HeaderName)
		if raw == "" {
			if cfg.DefaultTenantID != uuid.Nil {
				c.Set("tenant_id", cfg.DefaultTenantID)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "missing "+cfg.HeaderName+" header"))
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeInvalidInput, "invalid tenant identifier"))
			return
		}

		c.Set("tenant_id", tenantID)
		c.Next()
	}
}

// Tenant resolves the tenant with the default configuration
func Tenant() gin.HandlerFunc {
	return TenantWithConfig(DefaultTenantConfig())
}

// GetTenantID extracts the resolved tenant from the gin context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("tenant_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
