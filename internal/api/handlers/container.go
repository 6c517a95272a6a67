package handlers

import (
	"github.com/linskybing/orgflow/internal/application"
)

type Handlers struct {
	Audit       *AuditHandler
	User        *UserHandler
	Group       *GroupHandler
	Route       *RouteHandler
	Template    *TemplateHandler
	Application *ApplicationHandler
	Attachment  *AttachmentHandler
}

func New(svc *application.Services) *Handlers {
	return &Handlers{
		Audit:       NewAuditHandler(svc.Audit),
		User:        NewUserHandler(svc.User),
		Group:       NewGroupHandler(svc.Group),
		Route:       NewRouteHandler(svc.Route),
		Template:    NewTemplateHandler(svc.Template),
		Application: NewApplicationHandler(svc.Application),
		Attachment:  NewAttachmentHandler(svc.Attachment),
	}
}
