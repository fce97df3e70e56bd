// Package audit persists an append-only trail of status transitions and
// other sensitive actions. Recording is fire-and-forget: a failed write is
// logged, never propagated, so auditing can not break the use case that
// triggered it.
package audit

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Log is one recorded audit entry.
type Log struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Action     string                 `gorm:"type:varchar(100);not null;index"`
	EntityType string                 `gorm:"type:varchar(50);not null"`
	EntityID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	ActorID    *uuid.UUID             `gorm:"type:uuid"`
	OldValues  map[string]interface{} `gorm:"type:jsonb;serializer:json"`
	NewValues  map[string]interface{} `gorm:"type:jsonb;serializer:json"`
	Metadata   map[string]interface{} `gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM.
func (Log) TableName() string {
	return "audit_logs"
}

// Migrate creates or updates the audit log table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Log{})
}

// GormSink writes audit entries to the database.
type GormSink struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormSink creates a new database-backed audit sink.
func NewGormSink(db *gorm.DB, logger *zap.Logger) *GormSink {
	return &GormSink{db: db, logger: logger}
}

// Record persists an audit entry. Failures are logged and swallowed.
func (s *GormSink) Record(ctx context.Context, entry shared.AuditEntry) {
	log := &Log{
		ID:         uuid.New(),
		TenantID:   entry.TenantID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		OldValues:  entry.OldValues,
		NewValues:  entry.NewValues,
		Metadata:   entry.Metadata,
		CreatedAt:  time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err),
		)
	}
}

// NoOpSink discards all entries. Used in tests and when auditing is disabled.
type NoOpSink struct{}

// Record implements shared.AuditSink.
func (NoOpSink) Record(context.Context, shared.AuditEntry) {}

var _ shared.AuditSink = (*GormSink)(nil)
var _ shared.AuditSink = NoOpSink{}
