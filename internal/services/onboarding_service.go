package services

import (
	"strings"
	"sync"

	"account-service/internal/models"

	"gorm.io/gorm"
)

// Wizard steps, in order.
const (
	StepPersonal = iota + 1
	StepContact
	StepEmployment
	StepFinancial
	StepSecurity
	StepDocuments
	StepInvestment
	StepReview

	TotalSteps = StepReview
)

type SecurityQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// OnboardingDraft accumulates all eight field groups of the account
// setup wizard. It lives in memory only; abandoning the wizard loses it.
type OnboardingDraft struct {
	FirstName            string                `json:"first_name"`
	LastName             string                `json:"last_name"`
	DateOfBirth          string                `json:"date_of_birth"`
	SocialSecurityNumber string                `json:"social_security_number"`
	Phone                string                `json:"phone"`
	Address              string                `json:"address"`
	City                 string                `json:"city"`
	State                string                `json:"state"`
	ZipCode              string                `json:"zip_code"`
	EmploymentStatus     string                `json:"employment_status"`
	Employer             string                `json:"employer"`
	Occupation           string                `json:"occupation"`
	AnnualIncome         float64               `json:"annual_income"`
	NetWorth             float64               `json:"net_worth"`
	LiquidNetWorth       float64               `json:"liquid_net_worth"`
	SecurityQuestions    []SecurityQuestion    `json:"security_questions"`
	Documents            []models.DocumentMeta `json:"documents"`
	InvestmentExperience string                `json:"investment_experience"`
	RiskTolerance        string                `json:"risk_tolerance"`
	InvestmentGoals      []string              `json:"investment_goals"`
	TimeHorizon          string                `json:"time_horizon"`
}

// ValidateStep returns the human-readable problems with one step of a
// draft. An empty result means the step may be advanced past.
func ValidateStep(step int, d OnboardingDraft) []string {
	var errs []string

	switch step {
	case StepPersonal:
		if strings.TrimSpace(d.FirstName) == "" {
			errs = append(errs, "First name is required")
		}
		if strings.TrimSpace(d.LastName) == "" {
			errs = append(errs, "Last name is required")
		}
		if d.DateOfBirth == "" {
			errs = append(errs, "Date of birth is required")
		}
		if strings.TrimSpace(d.SocialSecurityNumber) == "" {
			errs = append(errs, "Social Security Number is required")
		}
	case StepContact:
		if strings.TrimSpace(d.Phone) == "" {
			errs = append(errs, "Phone number is required")
		}
		if strings.TrimSpace(d.Address) == "" {
			errs = append(errs, "Address is required")
		}
		if strings.TrimSpace(d.City) == "" {
			errs = append(errs, "City is required")
		}
		if strings.TrimSpace(d.State) == "" {
			errs = append(errs, "State is required")
		}
		if strings.TrimSpace(d.ZipCode) == "" {
			errs = append(errs, "ZIP code is required")
		}
	case StepEmployment:
		switch d.EmploymentStatus {
		case "":
			errs = append(errs, "Employment status is required")
		case "employed", "part-time":
			if strings.TrimSpace(d.Employer) == "" {
				errs = append(errs, "Employer is required")
			}
		case "self-employed":
			if strings.TrimSpace(d.Occupation) == "" {
				errs = append(errs, "Business/Occupation is required")
			}
		}
	case StepFinancial:
		if d.AnnualIncome <= 0 {
			errs = append(errs, "Annual income is required")
		}
	case StepSecurity:
		if len(d.SecurityQuestions) == 0 {
			errs = append(errs, "All security questions and answers are required")
		}
		for _, q := range d.SecurityQuestions {
			if q.Question == "" || strings.TrimSpace(q.Answer) == "" {
				errs = append(errs, "All security questions and answers are required")
				break
			}
		}
	case StepDocuments:
		if len(d.Documents) == 0 {
			errs = append(errs, "At least one document is required")
		}
	case StepInvestment:
		if d.InvestmentExperience == "" {
			errs = append(errs, "Investment experience is required")
		}
		if d.RiskTolerance == "" {
			errs = append(errs, "Risk tolerance is required")
		}
		if len(d.InvestmentGoals) == 0 {
			errs = append(errs, "At least one investment goal is required")
		}
	}

	return errs
}

// WizardState is one user's in-flight wizard: the draft plus the step
// cursor and the errors from the last validation of each step.
type WizardState struct {
	Step   int              `json:"step"`
	Draft  OnboardingDraft  `json:"draft"`
	Errors map[int][]string `json:"errors"`
}

type OnboardingService struct {
	DB *gorm.DB

	mu      sync.Mutex
	wizards map[string]*WizardState
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{
		DB:      db,
		wizards: make(map[string]*WizardState),
	}
}

func (s *OnboardingService) state(userID string) *WizardState {
	w, ok := s.wizards[userID]
	if !ok {
		w = &WizardState{
			Step:   StepPersonal,
			Errors: make(map[int][]string),
			Draft: OnboardingDraft{
				SecurityQuestions: []SecurityQuestion{{}, {}},
			},
		}
		s.wizards[userID] = w
	}
	return w
}

// GetState returns the user's wizard, starting a fresh one at step 1 if
// none exists.
func (s *OnboardingService) GetState(userID string) WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state(userID)
}

// SetDraft replaces the draft without moving the cursor.
func (s *OnboardingService) SetDraft(userID string, draft OnboardingDraft) WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.state(userID)
	w.Draft = draft
	return *w
}

// AddDocument appends an uploaded file descriptor to the draft.
func (s *OnboardingService) AddDocument(userID string, doc models.DocumentMeta) WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.state(userID)
	w.Draft.Documents = append(w.Draft.Documents, doc)
	return *w
}

// Advance validates the current step and, if clean, moves the cursor
// forward. The returned errors are non-empty when advancement is blocked.
func (s *OnboardingService) Advance(userID string) (WizardState, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.state(userID)

	errs := ValidateStep(w.Step, w.Draft)
	w.Errors[w.Step] = errs
	if len(errs) > 0 {
		return *w, errs
	}

	if w.Step < TotalSteps {
		w.Step++
	}
	return *w, nil
}

// Retreat moves the cursor back one step. It never re-validates.
func (s *OnboardingService) Retreat(userID string) WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.state(userID)
	if w.Step > StepPersonal {
		w.Step--
	}
	return *w
}

// Submit re-validates the final step, then writes the accumulated draft
// as a single profile upsert with the completion flag set. The draft is
// discarded on success and kept for retry on failure.
func (s *OnboardingService) Submit(userID string) (*models.Profile, []string, error) {
	s.mu.Lock()
	w := s.state(userID)
	errs := ValidateStep(w.Step, w.Draft)
	w.Errors[w.Step] = errs
	if len(errs) > 0 {
		s.mu.Unlock()
		return nil, errs, nil
	}
	draft := w.Draft
	s.mu.Unlock()

	updates := map[string]interface{}{
		"full_name":             strings.TrimSpace(draft.FirstName + " " + draft.LastName),
		"phone":                 draft.Phone,
		"address":               draft.Address,
		"city":                  draft.City,
		"state":                 draft.State,
		"zip_code":              draft.ZipCode,
		"employment_status":     draft.EmploymentStatus,
		"employer":              draft.Employer,
		"occupation":            draft.Occupation,
		"annual_income":         draft.AnnualIncome,
		"net_worth":             draft.NetWorth,
		"liquid_net_worth":      draft.LiquidNetWorth,
		"investment_experience": draft.InvestmentExperience,
		"risk_tolerance":        draft.RiskTolerance,
		"investment_goals":      models.StringList(draft.InvestmentGoals),
		"time_horizon":          draft.TimeHorizon,
		"documents_uploaded":    len(draft.Documents) > 0,
		"has_completed_profile": true,
	}

	var profile models.Profile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Profile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		if err := tx.Model(&profile).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	delete(s.wizards, userID)
	s.mu.Unlock()

	return &profile, nil, nil
}
