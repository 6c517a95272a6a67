package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/pkg/types"
)

const (
	ClaimsKey = "claims"
	CallerKey = "caller"
)

var GetClaimsFromContext = func(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, errors.New("user claims not found in context")
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}

	return claims, nil
}

// GetCallerFromContext returns the caller resolved by the identity middleware.
var GetCallerFromContext = func(c *gin.Context) (types.Caller, error) {
	callerVal, exists := c.Get(CallerKey)
	if !exists {
		return types.Caller{}, errors.New("caller not found in context")
	}

	caller, ok := callerVal.(types.Caller)
	if !ok {
		return types.Caller{}, errors.New("invalid caller type")
	}

	return caller, nil
}
