// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/internal/validators"
	"github.com/MKhiriev/decklister/models"
)

// dummySalt is hashed against on logins for unknown usernames so that they
// cost as much as a wrong password.
const dummySalt = "dummy-salt-for-timing"

// accountRegistry stores an account record under store.AccountKey and a
// reverse-index entry under store.UUIDAccountKey for every registration.
type accountRegistry struct {
	kv       store.KV
	nonces   NonceService
	hasher   PasswordHasher
	tokens   TokenCodec
	throttle LoginThrottle

	// salts generates per-account salts.
	salts utils.IDGenerator

	now func() time.Time
}

// NewAccountRegistry constructs an AccountRegistry on top of kv.
//
// When kv implements store.Transactional the account record and the reverse
// index are written in one transaction. Otherwise the reverse index is
// written first and removed again if the account record cannot be created.
func NewAccountRegistry(
	kv store.KV,
	nonces NonceService,
	hasher PasswordHasher,
	tokens TokenCodec,
	throttle LoginThrottle,
	log *logger.Logger,
) AccountRegistry {
	_, transactional := kv.(store.Transactional)
	log.Debug().Str("func", "NewAccountRegistry").Bool("transactional", transactional).Msg("account registry created")

	return &accountRegistry{
		kv:       kv,
		nonces:   nonces,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		salts:    utils.NewUUIDGenerator(),
		now:      time.Now,
	}
}

// Register binds a new account to req.UUID and returns a session token.
//
// Checks run in this order: nonce consumption, username format, username
// uniqueness, identity not yet protected. Returns ErrMissingFields,
// ErrInvalidNonce, ErrInvalidUsername, ErrUsernameTaken or
// ErrAlreadyProtected on the respective failure.
func (r *accountRegistry) Register(ctx context.Context, req models.RegisterRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Password == "" || req.UUID == "" {
		return models.Token{}, ErrMissingFields
	}

	if err := r.nonces.Consume(ctx, req.UUID, req.RegistrationNonce); err != nil {
		return models.Token{}, err
	}

	if err := validators.ValidateUsername(req.Username); err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidUsername, err)
	}
	username := strings.ToLower(req.Username)

	_, err := readAccount(ctx, r.kv, username)
	if err == nil {
		log.Info().Str("func", "*accountRegistry.Register").Str("username", username).Msg("username already taken")
		return models.Token{}, ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrKeyNotFound) {
		return models.Token{}, fmt.Errorf("registration failed: %w", err)
	}

	protected, err := isProtected(ctx, r.kv, req.UUID)
	if err != nil {
		return models.Token{}, fmt.Errorf("registration failed: %w", err)
	}
	if protected {
		log.Info().Str("func", "*accountRegistry.Register").Str("uuid", req.UUID).Msg("identity already protected")
		return models.Token{}, ErrAlreadyProtected
	}

	salt := r.salts.Generate()
	account := models.Account{
		UUID:         req.UUID,
		PasswordHash: r.hasher.Hash(req.Password, salt),
		Salt:         salt,
		CreatedAt:    r.now().UnixMilli(),
	}

	if err = r.createAccount(ctx, username, account); err != nil {
		return models.Token{}, err
	}

	log.Info().Str("func", "*accountRegistry.Register").Str("username", username).Str("uuid", req.UUID).
		Msg("account registered")

	return r.tokens.Issue(ctx, req.UUID, username)
}

// Login checks the credentials and returns a session token for the deck
// identity the account protects.
//
// Unknown usernames and wrong passwords both return ErrInvalidCredentials
// after the same amount of hashing work.
func (r *accountRegistry) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Password == "" {
		return models.Token{}, ErrMissingFields
	}
	username := strings.ToLower(req.Username)
	throttleKey := loginThrottleKey(ctx, username)

	if err := r.throttle.Allow(ctx, throttleKey); err != nil {
		return models.Token{}, err
	}

	account, err := readAccount(ctx, r.kv, username)
	if errors.Is(err, store.ErrKeyNotFound) {
		r.hasher.Hash(req.Password, dummySalt)
		r.throttle.Fail(ctx, throttleKey)
		log.Info().Str("func", "*accountRegistry.Login").Str("username", username).Msg("login for unknown username")
		return models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Token{}, fmt.Errorf("login failed: %w", err)
	}

	if !r.hasher.Verify(req.Password, account.Salt, account.PasswordHash) {
		r.throttle.Fail(ctx, throttleKey)
		log.Info().Str("func", "*accountRegistry.Login").Str("username", username).Msg("wrong password")
		return models.Token{}, ErrInvalidCredentials
	}

	r.throttle.Reset(ctx, throttleKey)

	return r.tokens.Issue(ctx, account.UUID, username)
}

// loginThrottleKey scopes failed logins to one username from one client
// address, so failures sent from elsewhere cannot lock the account owner out.
// '@' never occurs in a valid username.
func loginThrottleKey(ctx context.Context, username string) string {
	if ip, ok := utils.GetClientIPFromContext(ctx); ok {
		return username + "@" + ip
	}
	return username
}

func (r *accountRegistry) createAccount(ctx context.Context, username string, account models.Account) error {
	value, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("error encoding account: %w", err)
	}

	if tx, ok := r.kv.(store.Transactional); ok {
		err = tx.Update(ctx, func(tx store.KV) error {
			return createAccountTx(ctx, tx, username, account.UUID, string(value))
		})
		if err != nil && !errors.Is(err, ErrUsernameTaken) && !errors.Is(err, ErrAlreadyProtected) {
			logger.FromContext(ctx).Err(err).Str("func", "*accountRegistry.createAccount").Msg("account transaction failed")
			return fmt.Errorf("account creation failed: %w", err)
		}
		return err
	}

	return r.createAccountWriteAhead(ctx, username, account.UUID, string(value))
}

// createAccountTx re-checks both uniqueness constraints inside the
// transaction and creates the account record and its reverse-index entry.
// A live entry is never overwritten.
func createAccountTx(ctx context.Context, tx store.KV, username, uuid, value string) error {
	protected, err := isProtected(ctx, tx, uuid)
	if err != nil {
		return err
	}
	if protected {
		return ErrAlreadyProtected
	}

	if err = tx.Create(ctx, store.AccountKey(username), value); err != nil {
		if errors.Is(err, store.ErrKeyExists) {
			return ErrUsernameTaken
		}
		return err
	}

	pointerKey := store.UUIDAccountKey(uuid)
	_, err = tx.Get(ctx, pointerKey)
	switch {
	case err == nil:
		// the entry may have been committed since the first check
		if protected, err = isProtected(ctx, tx, uuid); err != nil {
			return err
		}
		if protected {
			return ErrAlreadyProtected
		}
		logger.FromContext(ctx).Warn().Str("func", "createAccountTx").Str("uuid", uuid).
			Msg("replacing dangling reverse index entry")
		if err = tx.Delete(ctx, pointerKey); err != nil {
			return err
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return err
	}

	// a failed insert aborts a postgres transaction, so a conflict here is
	// reported without further reads
	err = tx.Create(ctx, pointerKey, username)
	if errors.Is(err, store.ErrKeyExists) {
		return ErrAlreadyProtected
	}
	return err
}

// createAccountWriteAhead writes the reverse-index entry as a tentative
// pointer, then the account record. A pointer left behind by a crash between
// the two writes is ignored by isProtected and overwritten here.
func (r *accountRegistry) createAccountWriteAhead(ctx context.Context, username, uuid, value string) error {
	log := logger.FromContext(ctx)
	pointerKey := store.UUIDAccountKey(uuid)

	err := r.kv.Create(ctx, pointerKey, username)
	if errors.Is(err, store.ErrKeyExists) {
		protected, perr := isProtected(ctx, r.kv, uuid)
		if perr != nil {
			return fmt.Errorf("account creation failed: %w", perr)
		}
		if protected {
			return ErrAlreadyProtected
		}
		log.Warn().Str("func", "*accountRegistry.createAccountWriteAhead").Str("uuid", uuid).
			Msg("overwriting dangling reverse index entry")
		err = r.kv.Put(ctx, pointerKey, username)
	}
	if err != nil {
		log.Err(err).Str("func", "*accountRegistry.createAccountWriteAhead").Msg("reverse index write failed")
		return fmt.Errorf("account creation failed: %w", err)
	}

	err = r.kv.Create(ctx, store.AccountKey(username), value)
	if err == nil {
		return nil
	}

	if derr := r.kv.Delete(ctx, pointerKey); derr != nil {
		log.Err(derr).Str("func", "*accountRegistry.createAccountWriteAhead").Str("uuid", uuid).
			Msg("failed to remove tentative reverse index entry")
	}
	if errors.Is(err, store.ErrKeyExists) {
		return ErrUsernameTaken
	}
	log.Err(err).Str("func", "*accountRegistry.createAccountWriteAhead").Msg("account write failed")
	return fmt.Errorf("account creation failed: %w", err)
}
