package http

import (
	"time"

	"account-service/internal/domain"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	GivenNames      string `json:"givenNames" validate:"required"`
	Surnames        string `json:"surnames" validate:"required"`
	ShippingAddress string `json:"shippingAddress"`
	Email           string `json:"email" validate:"required,email"`
	BirthDate       string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Password        string `json:"password" validate:"required,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// updateRequest is a full profile; omitted optional fields are cleared.
type updateRequest struct {
	GivenNames      string `json:"givenNames" validate:"required"`
	Surnames        string `json:"surnames" validate:"required"`
	ShippingAddress string `json:"shippingAddress"`
	Email           string `json:"email" validate:"required,email"`
	BirthDate       string `json:"birthDate" validate:"required,datetime=2006-01-02"`
}

type ProfileResponse struct {
	ID              int64  `json:"id"`
	GivenNames      string `json:"givenNames"`
	Surnames        string `json:"surnames"`
	ShippingAddress string `json:"shippingAddress"`
	Email           string `json:"email"`
	BirthDate       string `json:"birthDate"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	GivenNames string `json:"givenNames"`
	Surnames   string `json:"surnames"`
}

func profileToResponse(profile domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:              profile.ID,
		GivenNames:      profile.GivenNames,
		Surnames:        profile.Surnames,
		ShippingAddress: profile.ShippingAddress,
		Email:           profile.Email,
		BirthDate:       profile.BirthDate.Format(dateLayout),
	}
}

func loginToResponse(result domain.LoginResult) LoginResponse {
	return LoginResponse{
		Token:      result.Token,
		ID:         result.ID,
		Email:      result.Email,
		GivenNames: result.GivenNames,
		Surnames:   result.Surnames,
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
