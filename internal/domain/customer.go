/**
 * @description
 * This file defines the core domain models for the onboarding-service.
 * These structs represent the main entities and data transfer objects (DTOs)
 * used throughout the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - Using distinct types for API requests, database models, and external service
 *   payloads ensures clear separation of concerns and type safety.
 * - Balances are stored as `int64` in centavos, which avoids floating-point
 *   inaccuracies with financial data.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the identity record for an onboarded bank customer. Email and
// phone number are unique; CURP and RFC are unique once set. The password is
// an opaque credential forwarded to the customer directory during signup and
// mirrored here as given.
type Customer struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	Password        string    `json:"-"`
	Nombres         *string   `json:"nombres,omitempty"`
	ApellidoPaterno *string   `json:"apellidoPaterno,omitempty"`
	ApellidoMaterno *string   `json:"apellidoMaterno,omitempty"`
	CURP            *string   `json:"curp,omitempty"`
	RFC             *string   `json:"rfc,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SavingsAccount is the financial record created once per customer during
// document signing. BankAccountID is set right after the linked CLABE account
// is created and, once set, is never nulled again.
type SavingsAccount struct {
	ID            uuid.UUID  `json:"id"`
	AccountNumber string     `json:"accountNumber"`
	Balance       int64      `json:"balance"` // in centavos
	CustomerID    uuid.UUID  `json:"customerId"`
	BankAccountID *uuid.UUID `json:"bankAccountId,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BankAccount is the CLABE routing record created alongside a savings account.
type BankAccount struct {
	ID         uuid.UUID `json:"id"`
	CLABE      string    `json:"clabe"`
	CustomerID uuid.UUID `json:"customerId"`
	CreatedAt  time.Time `json:"created_at"`
}

// SignupRequest is the DTO for incoming signup API requests.
type SignupRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// GeneralDataRequest is the DTO for attaching legal-identity fields to an
// existing customer record.
type GeneralDataRequest struct {
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellidoPaterno"`
	ApellidoMaterno string `json:"apellidoMaterno"`
	CURP            string `json:"curp"`
	RFC             string `json:"rfc"`
}

// SignDocumentsResult carries the signing token and contract location returned
// after a successful document-signing / account-provisioning round.
type SignDocumentsResult struct {
	Token       string `json:"token"`
	ContractURL string `json:"contractUrl"`
}

// CustomerRegisteredEvent is published after the directory accepts a signup.
type CustomerRegisteredEvent struct {
	CustomerID  string `json:"customer_id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// AccountsProvisionedEvent is published after document signing provisions the
// savings account and its linked CLABE account.
type AccountsProvisionedEvent struct {
	CustomerID    string `json:"customer_id"`
	AccountNumber string `json:"account_number"`
	CLABE         string `json:"clabe"`
}
