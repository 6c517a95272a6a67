package application

import (
	"errors"

	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/domain/formschema"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
)

var ErrAdminOnly = apperrors.Forbidden("only administrators can perform this action")

func requireAdmin(caller types.Caller) error {
	if !config.IsAdminRole(caller.Role) {
		return ErrAdminOnly
	}
	return nil
}

// schemaValidation turns a form schema problem list into a validation error.
func schemaValidation(err error, prefixed bool) error {
	var schemaErr *formschema.SchemaError
	if !errors.As(err, &schemaErr) {
		return err
	}
	if prefixed {
		return apperrors.Validation(schemaErr.Error(), schemaErr.Problems...)
	}
	return apperrors.Validation("", schemaErr.Problems...)
}
