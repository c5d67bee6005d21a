/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains all the necessary SQL queries to interact with the database tables
 * related to customers, savings accounts, and CLABE bank accounts.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/techreo/onboarding-service/internal/domain"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrSavingsAccountNotFound = errors.New("savings account not found")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindCustomerByID retrieves a customer from the database by their ID.
func (r *PostgresRepository) FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	query := `
		SELECT id, email, phone_number, password, nombres, apellido_paterno, apellido_materno, curp, rfc, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&c.ID,
		&c.Email,
		&c.PhoneNumber,
		&c.Password,
		&c.Nombres,
		&c.ApellidoPaterno,
		&c.ApellidoMaterno,
		&c.CURP,
		&c.RFC,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindCustomerByIdentityCodes returns a customer (other than excludeID) that
// already holds either of the given CURP/RFC codes. ErrCustomerNotFound means
// the codes are free to use.
func (r *PostgresRepository) FindCustomerByIdentityCodes(ctx context.Context, curp, rfc string, excludeID uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	query := `
		SELECT id, email, phone_number, password, nombres, apellido_paterno, apellido_materno, curp, rfc, created_at, updated_at
		FROM customers
		WHERE (curp = $1 OR rfc = $2) AND id <> $3
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, curp, rfc, excludeID).Scan(
		&c.ID,
		&c.Email,
		&c.PhoneNumber,
		&c.Password,
		&c.Nombres,
		&c.ApellidoPaterno,
		&c.ApellidoMaterno,
		&c.CURP,
		&c.RFC,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCustomerGeneralData writes the legal-identity fields onto an existing
// customer record.
func (r *PostgresRepository) UpdateCustomerGeneralData(ctx context.Context, customerID uuid.UUID, data domain.GeneralDataRequest) error {
	query := `
		UPDATE customers
		SET nombres = $2, apellido_paterno = $3, apellido_materno = $4, curp = $5, rfc = $6, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, customerID, data.Nombres, data.ApellidoPaterno, data.ApellidoMaterno, data.CURP, data.RFC)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// FindSavingsAccountByCustomerID retrieves the savings account owned by the
// given customer, resolving its bank-account link when present.
func (r *PostgresRepository) FindSavingsAccountByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.SavingsAccount, error) {
	var a domain.SavingsAccount
	query := `
		SELECT id, account_number, balance, customer_id, bank_account_id, created_at
		FROM savings_accounts
		WHERE customer_id = $1
	`
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&a.ID,
		&a.AccountNumber,
		&a.Balance,
		&a.CustomerID,
		&a.BankAccountID,
		&a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSavingsAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ProvisionAccounts creates the savings account, the CLABE bank account, and
// the link between them in a single transaction so a failure part-way cannot
// leave a savings account stranded without its bank account.
func (r *PostgresRepository) ProvisionAccounts(ctx context.Context, customerID uuid.UUID, accountNumber, clabe string) (*domain.SavingsAccount, *domain.BankAccount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin provisioning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var savings domain.SavingsAccount
	err = tx.QueryRow(ctx, `
		INSERT INTO savings_accounts (id, account_number, balance, customer_id)
		VALUES (gen_random_uuid(), $1, 0, $2)
		RETURNING id, account_number, balance, customer_id, bank_account_id, created_at
	`, accountNumber, customerID).Scan(
		&savings.ID,
		&savings.AccountNumber,
		&savings.Balance,
		&savings.CustomerID,
		&savings.BankAccountID,
		&savings.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert savings account: %w", err)
	}

	var bank domain.BankAccount
	err = tx.QueryRow(ctx, `
		INSERT INTO bank_accounts (id, clabe, customer_id)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, clabe, customer_id, created_at
	`, clabe, customerID).Scan(&bank.ID, &bank.CLABE, &bank.CustomerID, &bank.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert bank account: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE savings_accounts SET bank_account_id = $2 WHERE id = $1
	`, savings.ID, bank.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to link bank account: %w", err)
	}
	savings.BankAccountID = &bank.ID

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit provisioning transaction: %w", err)
	}
	return &savings, &bank, nil
}

// FindUnlinkedSavingsAccounts returns savings accounts left without a
// bank-account link, e.g. rows written before linking became transactional.
func (r *PostgresRepository) FindUnlinkedSavingsAccounts(ctx context.Context) ([]domain.SavingsAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_number, balance, customer_id, bank_account_id, created_at
		FROM savings_accounts
		WHERE bank_account_id IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.SavingsAccount
	for rows.Next() {
		var a domain.SavingsAccount
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.Balance, &a.CustomerID, &a.BankAccountID, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateBankAccountAndLink creates a CLABE bank account for a stranded savings
// account and attaches it, atomically. The link update is guarded so a repair
// racing a concurrent provisioning cannot overwrite an existing link.
func (r *PostgresRepository) CreateBankAccountAndLink(ctx context.Context, savingsAccountID, customerID uuid.UUID, clabe string) (*domain.BankAccount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin repair transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var bank domain.BankAccount
	err = tx.QueryRow(ctx, `
		INSERT INTO bank_accounts (id, clabe, customer_id)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, clabe, customer_id, created_at
	`, clabe, customerID).Scan(&bank.ID, &bank.CLABE, &bank.CustomerID, &bank.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert repair bank account: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE savings_accounts SET bank_account_id = $2
		WHERE id = $1 AND bank_account_id IS NULL
	`, savingsAccountID, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to link repair bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Linked concurrently; roll the orphan insert back.
		return nil, ErrSavingsAccountNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit repair transaction: %w", err)
	}
	return &bank, nil
}
