package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

type renameReq struct {
	Name string `json:"name" binding:"required"`
}

// getProfile returns the caller's profile, creating it on first sign-in.
func (r *Router) getProfile(c *gin.Context) {
	profile, err := r.journal.Profile(c.Request.Context(), ownerID(c), ownerEmail(c))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":     profile,
		"displayName": profile.DisplayName(),
		"visitLimit":  visitLimit(profile),
	})
}

func visitLimit(p model.UserProfile) *int {
	if p.IsPremium() {
		return nil
	}
	limit := model.FreeVisitLimit
	return &limit
}

func (r *Router) renameProfile(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := r.journal.UpdateDisplayName(c.Request.Context(), ownerID(c), req.Name); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) setTier(tier model.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := r.journal.SetTier(c.Request.Context(), ownerID(c), tier); err != nil {
			r.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subscriptionTier": tier})
	}
}

func (r *Router) deleteProfile(c *gin.Context) {
	if err := r.journal.DeleteProfile(c.Request.Context(), ownerID(c)); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
