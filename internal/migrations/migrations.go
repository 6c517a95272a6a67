package migrations

import (
	"github.com/linskybing/orgflow/internal/domain/approval"
	"github.com/linskybing/orgflow/internal/domain/attachment"
	"github.com/linskybing/orgflow/internal/domain/audit"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/internal/domain/template"
	"github.com/linskybing/orgflow/internal/domain/user"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&group.Group{},
		&group.Member{},
		&route.ApprovalRoute{},
		&route.RouteStep{},
		&template.ApprovalTemplate{},
		&approval.Application{},
		&approval.Assignment{},
		&attachment.Attachment{},
		&audit.AuditLog{},
	}
}

// Run migrates the schema of every model.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
