package settings

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"maplehr/internal/domain/shared"
)

// Settings is the organization-wide configuration row.
type Settings struct {
	CompanyName           string     `json:"companyName"`
	Timezone              string     `json:"timezone"`
	Language              string     `json:"language"`
	EmailNotifications    bool       `json:"emailNotifications"`
	PushNotifications     bool       `json:"pushNotifications"`
	AIInsights            bool       `json:"aiInsights"`
	AutoApproveClaims     bool       `json:"autoApproveClaims"`
	SmartScheduling       bool       `json:"smartScheduling"`
	AIConfidenceThreshold float64    `json:"aiConfidenceThreshold"`
	UpdatedBy             *string    `json:"updatedBy,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

func Defaults() Settings {
	return Settings{
		CompanyName:           "AI HRMS Corp",
		Timezone:              "UTC",
		Language:              "English",
		EmailNotifications:    true,
		PushNotifications:     true,
		AIInsights:            true,
		AutoApproveClaims:     false,
		SmartScheduling:       false,
		AIConfidenceThreshold: 0.80,
	}
}

// Validate reports the first problem with a settings payload.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.CompanyName) == "" {
		return shared.InvalidField("companyName", "is required")
	}
	if strings.TrimSpace(s.Language) == "" {
		return shared.InvalidField("language", "is required")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return shared.InvalidField("timezone", "must be an IANA time zone")
	}
	if s.AIConfidenceThreshold < 0 || s.AIConfidenceThreshold > 1 {
		return shared.InvalidField("aiConfidenceThreshold", "must be between 0 and 1")
	}
	return nil
}

type StoreAPI interface {
	Get(ctx context.Context, orgKey string) (Settings, error)
	Put(ctx context.Context, orgKey string, settings Settings, updatedBy string) (Settings, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// EnsureDefaults inserts the default row for orgKey if none exists.
func (s *Store) EnsureDefaults(ctx context.Context, orgKey string) error {
	d := Defaults()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO organization_settings (organization_key, company_name, timezone, language,
      email_notifications, push_notifications, ai_insights, auto_approve_claims, smart_scheduling,
      ai_confidence_threshold)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (organization_key) DO NOTHING
  `, orgKey, d.CompanyName, d.Timezone, d.Language, d.EmailNotifications, d.PushNotifications,
		d.AIInsights, d.AutoApproveClaims, d.SmartScheduling, d.AIConfidenceThreshold)
	return err
}

// Get returns the stored settings, or the defaults when the row is absent.
func (s *Store) Get(ctx context.Context, orgKey string) (Settings, error) {
	var out Settings
	err := s.DB.QueryRow(ctx, `
    SELECT company_name, timezone, language, email_notifications, push_notifications, ai_insights,
           auto_approve_claims, smart_scheduling, ai_confidence_threshold::float8, updated_by, updated_at
    FROM organization_settings
    WHERE organization_key = $1
  `, orgKey).Scan(
		&out.CompanyName, &out.Timezone, &out.Language, &out.EmailNotifications, &out.PushNotifications,
		&out.AIInsights, &out.AutoApproveClaims, &out.SmartScheduling, &out.AIConfidenceThreshold,
		&out.UpdatedBy, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, orgKey string, in Settings, updatedBy string) (Settings, error) {
	var by any
	if updatedBy != "" {
		by = updatedBy
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO organization_settings (organization_key, company_name, timezone, language,
      email_notifications, push_notifications, ai_insights, auto_approve_claims, smart_scheduling,
      ai_confidence_threshold, updated_by, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
    ON CONFLICT (organization_key) DO UPDATE
    SET company_name = EXCLUDED.company_name,
        timezone = EXCLUDED.timezone,
        language = EXCLUDED.language,
        email_notifications = EXCLUDED.email_notifications,
        push_notifications = EXCLUDED.push_notifications,
        ai_insights = EXCLUDED.ai_insights,
        auto_approve_claims = EXCLUDED.auto_approve_claims,
        smart_scheduling = EXCLUDED.smart_scheduling,
        ai_confidence_threshold = EXCLUDED.ai_confidence_threshold,
        updated_by = EXCLUDED.updated_by,
        updated_at = now()
  `, orgKey, in.CompanyName, in.Timezone, in.Language, in.EmailNotifications, in.PushNotifications,
		in.AIInsights, in.AutoApproveClaims, in.SmartScheduling, in.AIConfidenceThreshold, by)
	if err != nil {
		return Settings{}, err
	}
	return s.Get(ctx, orgKey)
}
