package service

import "account-service/internal/domain"

// ToProfile projects an account onto its public profile, dropping the password hash.
func ToProfile(account *domain.Account) domain.Profile {
	if account == nil {
		return domain.Profile{}
	}
	return domain.Profile{
		ID:              account.ID,
		GivenNames:      account.GivenNames,
		Surnames:        account.Surnames,
		ShippingAddress: account.ShippingAddress,
		Email:           account.Email,
		BirthDate:       account.BirthDate,
	}
}
