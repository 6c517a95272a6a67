package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/orgflow/pkg/response"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
)

// bindError answers a failed ShouldBind with one aggregated message.
func bindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		lbl := fieldLabel(fe.StructField())

		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s", lbl, fe.Param())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", lbl, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		msgs = append(msgs, msg)
	}

	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: strings.Join(msgs, "; "), Details: msgs})
}

// fieldLabel turns a Go field name such as RouteID into "route_id".
func fieldLabel(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func currentCaller(c *gin.Context) (types.Caller, bool) {
	caller, err := utils.GetCallerFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return types.Caller{}, false
	}
	return caller, true
}
