package handler

import (
	"net/http"

	"github.com/gmorel-dev/pokedex/internal/domain"
	"github.com/gmorel-dev/pokedex/internal/utils"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nom      string `json:"nom" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Nom   string `json:"nom"`
	Email string `json:"email"`
}

type registerResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	_, token, err := h.auth.Register(domain.Credentials{Email: body.Email, Nom: body.Nom, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "User created successfully",
		Token:   token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.auth.Login(domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    userResponse{Nom: user.Nom, Email: user.Email},
		Token:   token,
	})
}
