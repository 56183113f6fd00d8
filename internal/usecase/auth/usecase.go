package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mcredit-backend/internal/domain/session"
	"mcredit-backend/internal/domain/user"
	"mcredit-backend/pkg/id"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
}

type Usecase struct {
	users    user.Repository
	sessions session.Store
	ttl      time.Duration
	cost     int
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(users user.Repository, sessions session.Store, ttl time.Duration, log *zap.Logger) *Usecase {
	return &Usecase{users: users, sessions: sessions, ttl: ttl, cost: bcrypt.DefaultCost, log: log, now: time.Now}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (u *Usecase) WithHashCost(cost int) *Usecase {
	u.cost = cost
	return u
}

// Register creates a user. Anonymous callers can only create customers;
// staff accounts need an admin caller.
func (u *Usecase) Register(ctx context.Context, caller *user.Actor, in RegisterInput) (*user.User, error) {
	role := user.Role(in.Role)
	if role == "" {
		role = user.RoleCustomer
	}
	if !role.Valid() {
		return nil, user.ErrInvalidRole
	}
	if role != user.RoleCustomer && (caller == nil || caller.Role != user.RoleAdmin) {
		return nil, user.ErrForbidden
	}
	if len(in.Password) > user.MaxPasswordBytes {
		return nil, user.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	usr := &user.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		FullName:     strings.TrimSpace(in.FullName),
		Mobile:       strings.TrimSpace(in.Mobile),
		IsActive:     true,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.Uint64("user_id", usr.ID), zap.String("role", string(role)))
	return usr, nil
}

// Login checks credentials and opens a session with a fixed expiry.
func (u *Usecase) Login(ctx context.Context, username, password string) (*user.User, *session.Session, error) {
	usr, err := u.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, user.ErrNotFound) {
		return nil, nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, nil, user.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, nil, user.ErrInactive
	}

	sess := &session.Session{
		ID:        id.NewSessionID(),
		UserID:    usr.ID,
		Role:      usr.Role,
		ExpiresAt: u.now().Add(u.ttl),
	}
	if err := u.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return usr, sess, nil
}

// Authenticate resolves a session id to the calling actor.
func (u *Usecase) Authenticate(ctx context.Context, sid string) (*user.Actor, error) {
	if sid == "" {
		return nil, user.ErrUnauthenticated
	}
	sess, err := u.sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, user.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &user.Actor{UserID: sess.UserID, Role: sess.Role}, nil
}

func (u *Usecase) Me(ctx context.Context, actor user.Actor) (*user.User, error) {
	usr, err := u.users.GetByID(ctx, actor.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, user.ErrUnauthenticated
	}
	return usr, err
}

func (u *Usecase) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return u.sessions.Delete(ctx, sid)
}

var demoUsers = []RegisterInput{
	{Username: "admin", Email: "admin@mcredit.local", Password: "admin123", FullName: "Demo Admin", Role: string(user.RoleAdmin)},
	{Username: "agent", Email: "agent@mcredit.local", Password: "agent123", FullName: "Demo Agent", Role: string(user.RoleAgent)},
	{Username: "customer", Email: "customer@mcredit.local", Password: "customer123", FullName: "Demo Customer", Role: string(user.RoleCustomer)},
}

// SeedDemoUsers creates one user per role. Existing usernames are skipped.
func (u *Usecase) SeedDemoUsers(ctx context.Context) error {
	system := &user.Actor{Role: user.RoleAdmin}
	for _, in := range demoUsers {
		_, err := u.Register(ctx, system, in)
		switch {
		case err == nil:
			u.log.Info("seeded demo user", zap.String("username", in.Username))
		case errors.Is(err, user.ErrDuplicateUsername), errors.Is(err, user.ErrDuplicateEmail):
		default:
			return fmt.Errorf("seed %s: %w", in.Username, err)
		}
	}
	return nil
}
