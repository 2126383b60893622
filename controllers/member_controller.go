package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
)

// RegisterMemberRequest is posted by the registration form
type RegisterMemberRequest struct {
	LineUserID  string `json:"lineUserId" binding:"required"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
	RealName    string `json:"realName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// UpdateMemberRequest represents the request body for updating a member
type UpdateMemberRequest struct {
	DisplayName *string `json:"displayName"`
	RealName    *string `json:"realName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Specialty   *string `json:"specialty"`
	IsActive    *bool   `json:"isActive"`
}

// PromoteRequest is the optional body of POST /members/:id/promote
type PromoteRequest struct {
	Specialty string `json:"specialty"`
}

// MemberController serves customers and tailors
type MemberController struct {
	members *services.MemberService
}

func NewMemberController(members *services.MemberService) *MemberController {
	return &MemberController{members: members}
}

// Register handles POST /api/v1/members/register
func (ctl *MemberController) Register(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	member, err := ctl.members.Register(c.Request.Context(), services.RegisterInput{
		LineUserID:  req.LineUserID,
		DisplayName: req.DisplayName,
		PictureURL:  req.PictureURL,
		RealName:    req.RealName,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, member, "Registration saved")
}

// ListMembers handles GET /api/v1/members
func (ctl *MemberController) ListMembers(c *gin.Context) {
	page, limit := pageQuery(c)
	members, pagination, err := ctl.members.ListMembers(c.Request.Context(), services.ListMembersInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondList(c, members, pagination)
}

// ListTailors handles GET /api/v1/tailors
func (ctl *MemberController) ListTailors(c *gin.Context) {
	tailors, err := ctl.members.ListTailors(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tailors)
}

// GetMember handles GET /api/v1/members/:id
func (ctl *MemberController) GetMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	member, err := ctl.members.GetMember(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// UpdateMember handles PUT /api/v1/members/:id
func (ctl *MemberController) UpdateMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	member, err := ctl.members.UpdateMember(c.Request.Context(), id, services.UpdateMemberInput{
		DisplayName: req.DisplayName,
		RealName:    req.RealName,
		Phone:       req.Phone,
		Address:     req.Address,
		Specialty:   req.Specialty,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// DeleteMember handles DELETE /api/v1/members/:id
func (ctl *MemberController) DeleteMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.members.DeleteMember(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, gin.H{"id": id.Hex()}, "Member deleted")
}

// Promote handles POST /api/v1/members/:id/promote
func (ctl *MemberController) Promote(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req PromoteRequest
	// The body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, err)
			return
		}
	}

	member, err := ctl.members.Promote(c.Request.Context(), id, req.Specialty)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, member, "Member promoted to tailor")
}

// Demote handles POST /api/v1/members/:id/demote
func (ctl *MemberController) Demote(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	member, err := ctl.members.Demote(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, member, "Tailor demoted to customer")
}
