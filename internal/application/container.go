package application

import (
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/internal/storage"
)

type Services struct {
	Audit       *AuditService
	User        *UserService
	Group       *GroupService
	Route       *RouteService
	Template    *TemplateService
	Application *ApplicationService
	Attachment  *AttachmentService
}

func New(repos *repository.Repos, store storage.Driver) *Services {
	return &Services{
		Audit:       NewAuditService(repos),
		User:        NewUserService(repos),
		Group:       NewGroupService(repos),
		Route:       NewRouteService(repos),
		Template:    NewTemplateService(repos),
		Application: NewApplicationService(repos),
		Attachment:  NewAttachmentService(repos, store),
	}
}
