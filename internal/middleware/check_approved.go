package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// CheckApproved gates company endpoints on the approval workflow: the
// account must link to a company and that company must have been approved
// by management. Pending companies get a 403 so the client can show its
// awaiting-approval view.
func CheckApproved(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if user.CompanyID == nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Account is not linked to a company",
			})
			return
		}

		var company model.Company
		if err := db.Where("id = ?", user.CompanyID).First(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
					Error: "Linked company not found",
				})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve company data: %s", err.Error()),
			})
			return
		}

		if company.Status != model.StatusApproved {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: fmt.Sprintf("Company is %s, awaiting management approval", company.Status),
			})
			return
		}

		ctx.Set("company", company)
		ctx.Next()
	}
}
