/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for all
 * data access operations required by the onboarding-service. By defining an interface,
 * we decouple the application's business logic from the specific database implementation
 * (e.g., PostgreSQL), making the code more modular and easier to test.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/techreo/onboarding-service/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Customer methods
	FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
	// FindCustomerByIdentityCodes returns a customer holding either identity
	// code, excluding excludeID so a customer re-submitting its own data is
	// not flagged as a duplicate of itself.
	FindCustomerByIdentityCodes(ctx context.Context, curp, rfc string, excludeID uuid.UUID) (*domain.Customer, error)
	UpdateCustomerGeneralData(ctx context.Context, customerID uuid.UUID, data domain.GeneralDataRequest) error

	// Account methods
	FindSavingsAccountByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.SavingsAccount, error)
	// ProvisionAccounts creates the savings account, the CLABE bank account,
	// and the link between them atomically.
	ProvisionAccounts(ctx context.Context, customerID uuid.UUID, accountNumber, clabe string) (*domain.SavingsAccount, *domain.BankAccount, error)

	// Link-repair methods
	FindUnlinkedSavingsAccounts(ctx context.Context) ([]domain.SavingsAccount, error)
	CreateBankAccountAndLink(ctx context.Context, savingsAccountID, customerID uuid.UUID, clabe string) (*domain.BankAccount, error)
}
