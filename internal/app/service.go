/**
 * @description
 * This file contains the core business logic for the onboarding-service. The `Service`
 * struct orchestrates the onboarding workflow, coordinating between the database
 * repository, the external customer directory, the external bank API, and the
 * message broker.
 *
 * Key features:
 * - Implements the main use cases: signup, legal-identity update, document
 *   signing with account provisioning, and balance reads.
 * - Duplicate checks against the customer directory short-circuit on email.
 * - Publishes events to RabbitMQ for asynchronous processing by other services.
 *
 * @dependencies
 * - context, errors, log, time: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: For the document-signing token.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/customerclient, pkg/bankclient, pkg/rabbitmq: For external service communication.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/techreo/onboarding-service/internal/domain"
	"github.com/techreo/onboarding-service/internal/store"
	"github.com/techreo/onboarding-service/pkg/customerclient"
	"github.com/techreo/onboarding-service/pkg/rabbitmq"
)

var (
	// ErrEmailTaken indicates the directory already holds the signup email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPhoneTaken indicates the directory already holds the signup phone number.
	ErrPhoneTaken = errors.New("phone number already registered")
	// ErrIdentityCodeTaken indicates another customer holds the CURP or RFC.
	ErrIdentityCodeTaken = errors.New("curp or rfc already registered")
)

// CustomerDirectory is the subset of the customer directory client used by the
// service. Declared here so tests can substitute a fake.
type CustomerDirectory interface {
	CustomerExistsByEmail(ctx context.Context, bearerToken, email string) (bool, error)
	CustomerExistsByPhoneNumber(ctx context.Context, bearerToken, phoneNumber string) (bool, error)
	CreateCustomer(ctx context.Context, bearerToken string, payload customerclient.CreateCustomerRequest) (*customerclient.CreatedCustomer, error)
}

// BankAPI is the subset of the bank API client used by the service.
type BankAPI interface {
	GetAccountBalance(ctx context.Context, accountNumber string) (int64, error)
}

// Service provides the core business logic for customer onboarding.
type Service struct {
	repo          store.Repository
	directory     CustomerDirectory
	bank          BankAPI
	eventProducer rabbitmq.Publisher
	signingSecret []byte
	contractURL   string
}

// NewService creates a new onboarding service instance.
func NewService(repo store.Repository, directory CustomerDirectory, bank BankAPI, producer rabbitmq.Publisher, signingSecret, contractURL string) *Service {
	return &Service{
		repo:          repo,
		directory:     directory,
		bank:          bank,
		eventProducer: producer,
		signingSecret: []byte(signingSecret),
		contractURL:   contractURL,
	}
}

// Signup checks the email and phone number against the customer directory and,
// when both are free, registers the customer there. The caller's bearer
// credential is forwarded on every directory call. The email check runs first
// and short-circuits before the phone check.
func (s *Service) Signup(ctx context.Context, bearerToken string, req domain.SignupRequest) (string, error) {
	emailTaken, err := s.directory.CustomerExistsByEmail(ctx, bearerToken, req.Email)
	if err != nil {
		return "", fmt.Errorf("email lookup failed: %w", err)
	}
	if emailTaken {
		return "", ErrEmailTaken
	}

	phoneTaken, err := s.directory.CustomerExistsByPhoneNumber(ctx, bearerToken, req.PhoneNumber)
	if err != nil {
		return "", fmt.Errorf("phone lookup failed: %w", err)
	}
	if phoneTaken {
		return "", ErrPhoneTaken
	}

	created, err := s.directory.CreateCustomer(ctx, bearerToken, customerclient.CreateCustomerRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return "", fmt.Errorf("customer creation failed: %w", err)
	}

	if s.eventProducer != nil {
		event := domain.CustomerRegisteredEvent{
			CustomerID:  created.ID,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		}
		if err := s.eventProducer.Publish(ctx, "customer_events", "customer.registered", event); err != nil {
			log.Printf("level=warn component=app msg=\"failed to publish customer.registered\" customer_id=%s err=%v", created.ID, err)
		}
	}

	return created.ID, nil
}

// UpdateGeneralData attaches the legal-identity fields to an existing customer.
// A CURP or RFC held by a different customer rejects the update; the customer
// re-submitting its own codes is not a duplicate of itself.
func (s *Service) UpdateGeneralData(ctx context.Context, customerID uuid.UUID, req domain.GeneralDataRequest) error {
	existing, err := s.repo.FindCustomerByIdentityCodes(ctx, req.CURP, req.RFC, customerID)
	if err != nil && !errors.Is(err, store.ErrCustomerNotFound) {
		return fmt.Errorf("identity code lookup failed: %w", err)
	}
	if existing != nil {
		return ErrIdentityCodeTaken
	}

	if _, err := s.repo.FindCustomerByID(ctx, customerID); err != nil {
		return err
	}

	return s.repo.UpdateCustomerGeneralData(ctx, customerID, req)
}

// SignDocuments issues the signing token and contract location, then
// provisions the savings account and its linked CLABE account for the
// customer. The three account writes are atomic in the repository.
func (s *Service) SignDocuments(ctx context.Context, customerID uuid.UUID) (*domain.SignDocumentsResult, error) {
	token, err := s.signToken(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign document token: %w", err)
	}

	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	accountNumber, err := NewAccountNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account number: %w", err)
	}
	clabe, err := NewCLABE()
	if err != nil {
		return nil, fmt.Errorf("failed to generate clabe: %w", err)
	}

	savings, bank, err := s.repo.ProvisionAccounts(ctx, customer.ID, accountNumber, clabe)
	if err != nil {
		return nil, fmt.Errorf("failed to provision accounts: %w", err)
	}

	if s.eventProducer != nil {
		event := domain.AccountsProvisionedEvent{
			CustomerID:    customer.ID.String(),
			AccountNumber: savings.AccountNumber,
			CLABE:         bank.CLABE,
		}
		if err := s.eventProducer.Publish(ctx, "customer_events", "customer.accounts_provisioned", event); err != nil {
			log.Printf("level=warn component=app msg=\"failed to publish customer.accounts_provisioned\" customer_id=%s err=%v", customer.ID, err)
		}
	}

	return &domain.SignDocumentsResult{
		Token:       token,
		ContractURL: s.contractURL,
	}, nil
}

// GetSavingsBalance returns the balance of the savings account owned by the
// given customer.
func (s *Service) GetSavingsBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	account, err := s.repo.FindSavingsAccountByCustomerID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// GetExternalBalance fetches an account balance from the external bank API by
// raw account number. Not-found and transient failures stay distinguishable
// through the bankclient sentinel.
func (s *Service) GetExternalBalance(ctx context.Context, accountNumber string) (int64, error) {
	return s.bank.GetAccountBalance(ctx, accountNumber)
}

// signToken produces the HS256 token that simulates the customer's digital
// signature. The token carries no document content.
func (s *Service) signToken(customerID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"customerId": customerID.String(),
		"iat":        time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingSecret)
}
