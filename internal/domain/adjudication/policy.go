package adjudication

import (
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"vitess.io/vitess/go/mysql/decimal"

	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/leave"
)

// SupportedPolicyVersions is the range of policy file versions this build understands.
const SupportedPolicyVersions = ">= 1.0.0, < 2.0.0"

type ClaimLimits struct {
	MealsPerDay            string `yaml:"meals_per_day"`
	TravelPerTrip          string `yaml:"travel_per_trip"`
	OfficeSuppliesPerMonth string `yaml:"office_supplies_per_month"`
	TrainingPerYear        string `yaml:"training_per_year"`
}

type LeaveLimits struct {
	SickMaxDays           int `yaml:"sick_max_days"`
	PersonalMaxDays       int `yaml:"personal_max_days"`
	VacationAllowanceDays int `yaml:"vacation_allowance_days"`
	VacationNoticeDays    int `yaml:"vacation_notice_days"`
}

// Policy holds the approval thresholds. Money limits are kept as strings in YAML and
// parsed once by compile.
type Policy struct {
	Version string      `yaml:"version"`
	Claims  ClaimLimits `yaml:"claims"`
	Leave   LeaveLimits `yaml:"leave"`

	meals, travel, supplies, training decimal.Decimal
}

func DefaultPolicy() *Policy {
	p := &Policy{
		Version: "1.0.0",
		Claims: ClaimLimits{
			MealsPerDay:            "50.00",
			TravelPerTrip:          "500.00",
			OfficeSuppliesPerMonth: "200.00",
			TrainingPerYear:        "1000.00",
		},
		Leave: LeaveLimits{
			SickMaxDays:           5,
			PersonalMaxDays:       2,
			VacationAllowanceDays: 20,
			VacationNoticeDays:    14,
		},
	}
	if err := p.compile(); err != nil {
		panic(err)
	}
	return p
}

// LoadPolicy overlays the YAML file at path onto the defaults. An empty path yields the defaults.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read adjudication policy")
	}
	return ParsePolicy(raw)
}

func ParsePolicy(raw []byte) (*Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, errors.Wrap(err, "parse adjudication policy")
	}
	if err := checkVersion(p.Version); err != nil {
		return nil, err
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "policy version %q", version)
	}
	constraint, err := semver.NewConstraint(SupportedPolicyVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("policy version %s is outside %s", version, SupportedPolicyVersions)
	}
	return nil
}

func (p *Policy) compile() error {
	limits := []struct {
		name string
		raw  string
		dest *decimal.Decimal
	}{
		{"claims.meals_per_day", p.Claims.MealsPerDay, &p.meals},
		{"claims.travel_per_trip", p.Claims.TravelPerTrip, &p.travel},
		{"claims.office_supplies_per_month", p.Claims.OfficeSuppliesPerMonth, &p.supplies},
		{"claims.training_per_year", p.Claims.TrainingPerYear, &p.training},
	}
	for _, limit := range limits {
		d, err := decimal.NewFromString(limit.raw)
		if err != nil {
			return errors.Wrapf(err, "policy %s", limit.name)
		}
		if d.Sign() <= 0 {
			return fmt.Errorf("policy %s must be positive", limit.name)
		}
		*limit.dest = d
	}
	l := p.Leave
	if l.SickMaxDays < 0 || l.PersonalMaxDays < 0 || l.VacationAllowanceDays < 0 || l.VacationNoticeDays < 0 {
		return fmt.Errorf("policy leave limits must not be negative")
	}
	return nil
}

// ClaimWindow is the claim_date range whose prior spend counts toward a category limit.
// ok is false for categories without a cumulative limit.
func (p *Policy) ClaimWindow(category string, claimDate time.Time) (from, to time.Time, ok bool) {
	d := claimDate.UTC()
	switch category {
	case claims.CategoryMeals:
		from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1), true
	case claims.CategoryOfficeSupplies:
		from = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	case claims.CategoryTraining:
		from = time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}

// ClaimFacts is everything the claim rules look at.
type ClaimFacts struct {
	Category   string
	Amount     decimal.Decimal
	HasReceipt bool
	// PriorTotal is same-category spend inside ClaimWindow, excluding this claim.
	PriorTotal decimal.Decimal
}

// EvaluateClaim applies the expense rules. Categories without a rule are undecided.
func (p *Policy) EvaluateClaim(f ClaimFacts) Decision {
	if f.Amount.Sign() <= 0 {
		return reject("invalid_amount", 0.99, "Claim amount must be positive")
	}
	total := f.Amount
	if f.PriorTotal.Sign() > 0 {
		total = f.Amount.Add(f.PriorTotal)
	}

	switch f.Category {
	case claims.CategoryMeals:
		if total.Cmp(p.meals) <= 0 {
			return approve("meals_daily_limit", 0.95, fmt.Sprintf("Meal expenses of %s for the day are within the %s daily limit", total.String(), p.meals.String()))
		}
		return reject("meals_daily_limit", 0.90, fmt.Sprintf("Meal expenses of %s for the day exceed the %s daily limit", total.String(), p.meals.String()))
	case claims.CategoryTravel:
		if f.Amount.Cmp(p.travel) > 0 {
			return reject("travel_trip_limit", 0.90, fmt.Sprintf("Travel claim exceeds the %s per-trip limit", p.travel.String()))
		}
		if !f.HasReceipt {
			return review("travel_receipt_required", 0.60, "Travel claims require a receipt; manual review needed")
		}
		return approve("travel_trip_limit", 0.90, fmt.Sprintf("Travel claim with receipt is within the %s per-trip limit", p.travel.String()))
	case claims.CategoryOfficeSupplies:
		if total.Cmp(p.supplies) <= 0 {
			return approve("office_supplies_monthly_limit", 0.90, fmt.Sprintf("Office supplies of %s this month are within the %s monthly limit", total.String(), p.supplies.String()))
		}
		return reject("office_supplies_monthly_limit", 0.90, fmt.Sprintf("Office supplies of %s this month exceed the %s monthly limit", total.String(), p.supplies.String()))
	case claims.CategoryTraining:
		if total.Cmp(p.training) <= 0 {
			return review("training_preapproval", 0.50, "Training within the annual budget requires pre-approval; manual review needed")
		}
		return reject("training_annual_limit", 0.90, fmt.Sprintf("Training spend of %s exceeds the %s annual limit", total.String(), p.training.String()))
	}
	return undecided()
}

// LeaveFacts is everything the leave rules look at.
type LeaveFacts struct {
	Type        string
	Days        int
	StartDate   time.Time
	RequestedAt time.Time
	// ApprovedVacationDays is already-approved vacation in the start year, excluding this request.
	ApprovedVacationDays int
}

// EvaluateLeave applies the leave rules. Types without a rule are undecided.
func (p *Policy) EvaluateLeave(f LeaveFacts) Decision {
	if f.Days <= 0 {
		return reject("invalid_days", 0.99, "Leave requests must cover at least one day")
	}
	l := p.Leave
	switch f.Type {
	case leave.TypeSick:
		if f.Days <= l.SickMaxDays {
			return approve("sick_max_days", 0.95, fmt.Sprintf("Sick leave of %d days is within the %d-day auto-approval limit", f.Days, l.SickMaxDays))
		}
		return review("sick_max_days", 0.60, fmt.Sprintf("Sick leave longer than %d consecutive days needs manual review", l.SickMaxDays))
	case leave.TypePersonal:
		if f.Days <= l.PersonalMaxDays {
			return approve("personal_max_days", 0.85, fmt.Sprintf("Personal leave of %d days is within the %d-day limit", f.Days, l.PersonalMaxDays))
		}
		return review("personal_manager_approval", 0.60, fmt.Sprintf("Personal leave over %d days requires manager approval", l.PersonalMaxDays))
	case leave.TypeEmergency:
		return approve("emergency", 0.80, "Emergency leave is approved")
	case leave.TypeVacation:
		remaining := l.VacationAllowanceDays - f.ApprovedVacationDays
		if f.Days > remaining {
			if remaining < 0 {
				remaining = 0
			}
			return reject("vacation_allowance", 0.90, fmt.Sprintf("Vacation of %d days exceeds the remaining allowance of %d days", f.Days, remaining))
		}
		notice := leave.NoticeDays(f.RequestedAt, f.StartDate)
		if notice < l.VacationNoticeDays {
			return review("vacation_notice", 0.60, fmt.Sprintf("Vacation requested with %d days notice; %d days are expected", notice, l.VacationNoticeDays))
		}
		return approve("vacation_allowance", 0.85, fmt.Sprintf("Vacation of %d days is within the remaining allowance of %d days with sufficient notice", f.Days, remaining))
	}
	return undecided()
}

// ClaimRulesText renders the claim thresholds for the advisor prompt.
func (p *Policy) ClaimRulesText() string {
	return fmt.Sprintf(`- Meals: up to $%s per day
- Travel: up to $%s per trip with receipts
- Office supplies: up to $%s per month
- Training: up to $%s per year with pre-approval`,
		p.meals.String(), p.travel.String(), p.supplies.String(), p.training.String())
}

func (p *Policy) LeaveRulesText() string {
	l := p.Leave
	return fmt.Sprintf(`- Vacation: Check if within annual allowance (%d days) and sufficient notice (%d days)
- Sick leave: Auto-approve up to %d consecutive days
- Personal leave: Requires manager approval for more than %d days
- Emergency leave: Usually approved regardless`,
		l.VacationAllowanceDays, l.VacationNoticeDays, l.SickMaxDays, l.PersonalMaxDays)
}
