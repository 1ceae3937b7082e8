package controllers

import (
	"net/http"

	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/auth"
	"github.com/prasetyowidi/selaras/pkg/bind"
	"github.com/prasetyowidi/selaras/pkg/response"
)

type AuthController struct {
	users *repositories.UserRepository
}

func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Login exchanges credentials for a bearer token. Unknown users and bad
// passwords get the same answer.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.FindByUsername(body.Username)
	if err != nil || !auth.CheckPassword(user.Password, body.Password) {
		response.Unauthorized(w)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"token": token})
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, err := c.users.FindByID(claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}
