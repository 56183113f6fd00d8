package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/uow"
	"mcredit-backend/internal/domain/user"

	"go.uber.org/zap"
)

var ErrNotAgent = errors.New("assignee must be an active agent")

// Recorder receives business events for metrics.
type Recorder interface {
	ApplicationCreated()
	StatusChanged(from, to string)
}

type nopRecorder struct{}

func (nopRecorder) ApplicationCreated()       {}
func (nopRecorder) StatusChanged(_, _ string) {}

type Usecase struct {
	repo  loan.Repository
	users user.Repository
	uow   uow.UnitOfWork
	log   *zap.Logger
	rec   Recorder
	now   func() time.Time
}

func NewUsecase(r loan.Repository, users user.Repository, u uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, users: users, uow: u, log: log, rec: nopRecorder{}, now: time.Now}
}

func (u *Usecase) WithRecorder(rec Recorder) *Usecase {
	u.rec = rec
	return u
}

// Quote exposes the repayment schedule to the public calculator.
func (u *Usecase) Quote(amount int64) (loan.Schedule, error) { return loan.Quote(amount) }

// Create stores a new application owned by the actor. Money fields are always
// derived here from the requested amount.
func (u *Usecase) Create(ctx context.Context, actor user.Actor, in CreateInput) (*loan.Application, error) {
	s, err := loan.Quote(in.LoanAmount)
	if err != nil {
		return nil, err
	}
	a := &loan.Application{
		UserID:         actor.UserID,
		FullName:       strings.TrimSpace(in.FullName),
		Mobile:         strings.TrimSpace(in.Mobile),
		Email:          strings.TrimSpace(in.Email),
		DateOfBirth:    in.DateOfBirth,
		Address:        strings.TrimSpace(in.Address),
		MonthlyIncome:  in.MonthlyIncome,
		EmploymentType: in.EmploymentType,
		Purpose:        in.Purpose,
		Status:         loan.StatusPending,
		KYCStatus:      loan.KYCPending,
	}
	a.ApplySchedule(s)

	if err := u.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	u.rec.ApplicationCreated()
	u.log.Info("application created",
		zap.String("application_id", a.ApplicationID),
		zap.Uint64("user_id", a.UserID),
		zap.Int64("loan_amount", a.LoanAmount))
	return a, nil
}

func (u *Usecase) Get(ctx context.Context, actor user.Actor, appID uint64) (*loan.Application, error) {
	a, err := u.repo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(a.UserID) {
		return nil, user.ErrForbidden
	}
	return a, nil
}

// Track is the anonymous lookup by public identifier. actor may be nil.
func (u *Usecase) Track(ctx context.Context, actor *user.Actor, applicationID string) (*TrackingView, error) {
	a, err := u.repo.GetByApplicationID(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return nil, err
	}
	full := actor != nil && actor.CanAccess(a.UserID)
	return trackingView(a, full), nil
}

// List returns every application for staff and only their own for customers.
func (u *Usecase) List(ctx context.Context, actor user.Actor, status string) ([]loan.Application, error) {
	var f loan.Filter
	if status != "" {
		st, err := loan.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if !actor.Role.Staff() {
		uid := actor.UserID
		f.UserID = &uid
	}
	return u.repo.List(ctx, f)
}

func (u *Usecase) UpdateStatus(ctx context.Context, actor user.Actor, appID uint64, status string) (*loan.Application, error) {
	if !actor.Role.Staff() {
		return nil, user.ErrForbidden
	}
	to, err := loan.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var out *loan.Application
	err = u.uow.WithinLoanTx(ctx, appID, func(r uow.Repos, a *loan.Application) error {
		from := a.Status
		changed, err := a.Transition(to)
		if err != nil {
			return err
		}
		out = a
		if !changed {
			return nil
		}
		if err := r.Loans.Save(ctx, a); err != nil {
			return err
		}
		u.rec.StatusChanged(string(from), string(to))
		u.log.Info("application status changed",
			zap.String("application_id", a.ApplicationID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Uint64("by", actor.UserID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignAgent is admin-only; the assignee must be an active agent.
func (u *Usecase) AssignAgent(ctx context.Context, actor user.Actor, appID, agentID uint64) (*loan.Application, error) {
	if actor.Role != user.RoleAdmin {
		return nil, user.ErrForbidden
	}
	agent, err := u.users.GetByID(ctx, agentID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrNotAgent
	}
	if err != nil {
		return nil, err
	}
	if agent.Role != user.RoleAgent || !agent.IsActive {
		return nil, ErrNotAgent
	}

	var out *loan.Application
	err = u.uow.WithinLoanTx(ctx, appID, func(r uow.Repos, a *loan.Application) error {
		a.AssignedAgent = &agentID
		out = a
		return r.Loans.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("agent assigned",
		zap.String("application_id", out.ApplicationID),
		zap.Uint64("agent_id", agentID))
	return out, nil
}

func (u *Usecase) UpdateKYC(ctx context.Context, actor user.Actor, appID uint64, status string) (*loan.Application, error) {
	if !actor.Role.Staff() {
		return nil, user.ErrForbidden
	}
	to, err := loan.ParseKYCStatus(status)
	if err != nil {
		return nil, err
	}

	var out *loan.Application
	err = u.uow.WithinLoanTx(ctx, appID, func(r uow.Repos, a *loan.Application) error {
		if err := a.SetKYC(to, u.now().UTC()); err != nil {
			return err
		}
		out = a
		return r.Loans.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Stats(ctx context.Context, actor user.Actor) (loan.Stats, error) {
	if actor.Role != user.RoleAdmin {
		return loan.Stats{}, user.ErrForbidden
	}
	apps, err := u.repo.List(ctx, loan.Filter{})
	if err != nil {
		return loan.Stats{}, err
	}
	return loan.Summarize(apps), nil
}
