package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/skills-enroll/internal/lock"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

// Metric sources for fee calculations.
const (
	SourceSession   = "session"
	SourceStateless = "stateless"
)

const defaultSessionTTL = 24 * time.Hour

// Result is the outcome of a successful fee calculation.
type Result struct {
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Catalog    pricing.Catalog
	Calculator *pricing.Calculator
	Store      SessionStore
	Locks      lock.Guard
	LockTTL    time.Duration
	SessionTTL time.Duration
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Service drives the enrollment flow: it keeps selections in sessions and
// prices them once the visitor's details are valid.
type Service struct {
	catalog    pricing.Catalog
	calc       *pricing.Calculator
	store      SessionStore
	locks      lock.Guard
	lockTTL    time.Duration
	sessionTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService constructs a Service. Store and Locks default to in-process implementations.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("enrollment: catalog is required")
	}
	if cfg.Calculator == nil {
		return nil, errors.New("enrollment: calculator is required")
	}
	svc := &Service{
		catalog:    cfg.Catalog,
		calc:       cfg.Calculator,
		store:      cfg.Store,
		locks:      cfg.Locks,
		lockTTL:    cfg.LockTTL,
		sessionTTL: cfg.SessionTTL,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.store == nil {
		svc.store = NewMemoryStoreWithClock(svc.now)
	}
	if svc.locks == nil {
		svc.locks = &lock.Local{}
	}
	if svc.sessionTTL <= 0 {
		svc.sessionTTL = defaultSessionTTL
	}
	return svc, nil
}

// Start opens a session with an empty selection.
func (s *Service) Start(ctx context.Context) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Selection: NewSelection(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, sessionID string) (Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Toggle adds courseID to the session's selection, or removes it when already selected.
// Concurrent toggles on one session are serialised.
func (s *Service) Toggle(ctx context.Context, sessionID, courseID string) (Session, error) {
	course, ok := s.catalog.FindByID(courseID)
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownCourse, courseID)
	}
	var out Session
	err := s.locks.WithLock(ctx, "enrollment:"+sessionID, s.lockTTL, func(ctx context.Context) error {
		sess, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		sess.Selection = sess.Selection.Toggle(course.ID, course.Price)
		sess.UpdatedAt = now
		sess.ExpiresAt = now.Add(s.sessionTTL)
		if err := s.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		out = sess
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return out, nil
}

// Calculate validates info and prices the session's selection.
func (s *Service) Calculate(ctx context.Context, sessionID string, info PersonalInfo) (Result, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if err := s.checkDrift(sess); err != nil {
		return Result{}, err
	}
	return s.price(ctx, SourceSession, info, sess.Selection)
}

// Quote prices ids without a session, for clients that keep their selection locally.
func (s *Service) Quote(ctx context.Context, ids []string, info PersonalInfo) (Result, error) {
	sel := NewSelection()
	for _, id := range lo.Uniq(ids) {
		price := decimal.Zero
		if course, ok := s.catalog.FindByID(id); ok {
			price = course.Price
		}
		sel = sel.Toggle(id, price)
	}
	return s.price(ctx, SourceStateless, info, sel)
}

// Reset discards a session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) checkDrift(sess Session) error {
	err := sess.Selection.Verify(s.catalog)
	switch {
	case err == nil, errors.Is(err, pricing.ErrUnresolvedCourse):
		// Unresolvable ids are reported by the calculator.
		return nil
	case errors.Is(err, ErrSubtotalDrift):
		obs.ObserveSubtotalDrift()
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("running subtotal drifted; using catalog prices")
		return nil
	default:
		return err
	}
}

func (s *Service) price(ctx context.Context, source string, info PersonalInfo, sel Selection) (Result, error) {
	ctx, span := otel.Tracer(obs.TracerName).Start(ctx, "Enrollment.Calculate")
	defer span.End()
	span.SetAttributes(
		attribute.String("enrollment.source", source),
		attribute.Int("enrollment.selected", sel.Len()),
	)

	info = info.Normalize()
	if errs := Validate(info, sel); !errs.Empty() {
		obs.ObserveFeeCalculation(source, obs.ResultInvalid, sel.Len())
		span.SetAttributes(attribute.String("enrollment.result", obs.ResultInvalid))
		return Result{}, errs
	}

	breakdown, err := s.calc.Calculate(sel.IDs(), s.catalog)
	if err != nil {
		result := obs.ResultError
		if errors.Is(err, pricing.ErrUnresolvedCourse) {
			result = obs.ResultUnresolved
		}
		obs.ObserveFeeCalculation(source, result, sel.Len())
		span.SetAttributes(attribute.String("enrollment.result", result))
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		return Result{}, err
	}
	if err := breakdown.Check(); err != nil {
		obs.ObserveFeeCalculation(source, obs.ResultError, sel.Len())
		span.RecordError(err)
		span.SetStatus(codes.Error, "inconsistent breakdown")
		return Result{}, fmt.Errorf("enrollment: %w", err)
	}

	obs.ObserveFeeCalculation(source, obs.ResultOK, len(breakdown.LineItems))
	span.SetAttributes(
		attribute.String("enrollment.result", obs.ResultOK),
		attribute.String("enrollment.total", breakdown.Total.String()),
	)
	return Result{PersonalInfo: info, Breakdown: breakdown}, nil
}
