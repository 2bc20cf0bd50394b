package user_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/google/uuid"
)

type UserService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewUserService(store *db.Store, logger *logging.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

type RegisterParams struct {
	Email    string
	FullName string
	Password string
	Role     string
}

// Register creates the account and its empty wallet together.
func (u *UserService) Register(ctx context.Context, params RegisterParams) (*db.User, error) {
	hashed, err := utils.GenerateHashValue(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := params.Role
	if role == "" {
		role = utils.RoleCustomer
	}

	var newUser db.User
	err = u.store.ExecTx(ctx, func(q *db.Queries) error {
		var err error
		newUser, err = q.CreateUser(ctx, db.CreateUserParams{
			Email:          normalizeEmail(params.Email),
			FullName:       strings.TrimSpace(params.FullName),
			HashedPassword: hashed,
			Role:           role,
		})
		if db.IsUniqueViolation(err) {
			return NewUserError(ErrUserAlreadyExists, "", err)
		} else if err != nil {
			return err
		}

		if err := q.CreateWalletIfAbsent(ctx, newUser.ID); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info(fmt.Sprintf("user registered: %v", newUser.ID))
	return &newUser, nil
}

// Authenticate checks the password and hides whether the email exists.
func (u *UserService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	dbUser, err := u.FetchUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if err := utils.VerifyHashValue(password, dbUser.HashedPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	return dbUser, nil
}

func (u *UserService) FetchUserByEmail(ctx context.Context, email string) (*db.User, error) {
	dbUser, err := u.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewUserError(ErrUserNotFound, email)
	} else if err != nil {
		return nil, err
	}
	return &dbUser, nil
}

func (u *UserService) FetchUserByID(ctx context.Context, id uuid.UUID) (*db.User, error) {
	dbUser, err := u.store.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewUserError(ErrUserNotFound, id.String())
	} else if err != nil {
		return nil, err
	}
	return &dbUser, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
