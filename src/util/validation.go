package util

import (
	"regexp"

	"walletly-server/src/models"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateName(name string) bool {
	return len(name) >= 1 && len(name) <= 60
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)
	hasSpecial := regexp.MustCompile(`[^A-Za-z0-9]`).MatchString(password)

	return hasLower && hasUpper && hasDigit && hasSpecial
}

func ValidateTransactionType(t models.TransactionType) bool {
	return t == models.TypeIncome || t == models.TypeExpense
}

func ValidateAmount(amount float64) bool {
	return amount > 0
}

func ValidateDayOfMonth(day int) bool {
	return day >= 1 && day <= 31
}

func ValidateMonth(month int) bool {
	return month >= 1 && month <= 12
}
