package service

import (
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/rs/zerolog/log"

    "github.com/NetraTech/netra_api/internal/lens"
    "github.com/NetraTech/netra_api/internal/models"
    "github.com/NetraTech/netra_api/internal/repository"
    "github.com/NetraTech/netra_api/internal/utils"
)

var suggestionsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
    Name: "netra_suggestions_total",
    Help: "Lens suggestion computations by lifestyle",
}, []string{"lifestyle"})

// SuggestionService produces lens recommendations for a prescription. The
// prescription can be supplied inline or resolved from a stored eye test.
type SuggestionService struct {
    patientRepo *repository.PatientRepository
    eyeTestRepo *repository.EyeTestRepository
}

// NewSuggestionService constructs a SuggestionService.
func NewSuggestionService(patientRepo *repository.PatientRepository, eyeTestRepo *repository.EyeTestRepository) *SuggestionService {
    return &SuggestionService{patientRepo: patientRepo, eyeTestRepo: eyeTestRepo}
}

// SuggestRequest input. When eyeTestId or patientId is set, the stored
// prescription wins over the inline fields; inline age and lifestyle still
// override the patient record so the counter can ask "what if".
type SuggestRequest struct {
    EyeTestID *int `json:"eyeTestId"`
    PatientID *int `json:"patientId"`

    Prescription lens.PrescriptionInput `json:"prescription"`
}

// SuggestResponse echoes the resolved prescription next to the suggestions so
// the terminal can show which inputs drove the advice.
type SuggestResponse struct {
    Prescription lens.PrescriptionInput `json:"prescription"`
    Suggestions  []lens.Suggestion      `json:"suggestions"`
}

// Suggest resolves the prescription and runs the recommendation engine.
func (s *SuggestionService) Suggest(req *SuggestRequest) (*SuggestResponse, error) {
    input := req.Prescription

    switch {
    case req.EyeTestID != nil:
        test, err := s.eyeTestRepo.GetByID(*req.EyeTestID)
        if err != nil || test == nil {
            return nil, utils.ErrEyeTestNotFound
        }
        applyEyeTest(&input, test)
        s.applyPatient(&input, test.PatientID)

    case req.PatientID != nil:
        test, err := s.eyeTestRepo.GetLatestByPatient(*req.PatientID)
        if err != nil || test == nil {
            return nil, utils.ErrEyeTestNotFound
        }
        applyEyeTest(&input, test)
        s.applyPatient(&input, test.PatientID)
    }

    suggestions := lens.Suggest(input)

    lifestyle := input.Lifestyle
    if lifestyle == "" {
        lifestyle = lens.LifestyleGeneral
    }
    suggestionsComputed.WithLabelValues(string(lifestyle)).Inc()
    log.Debug().
        Int("suggestions", len(suggestions)).
        Str("lifestyle", string(lifestyle)).
        Msg("lens suggestions computed")

    return &SuggestResponse{
        Prescription: input,
        Suggestions:  suggestions,
    }, nil
}

// applyEyeTest copies the stored refraction values into the engine input.
func applyEyeTest(input *lens.PrescriptionInput, test *models.EyeTest) {
    input.RightSphere = test.RightSphere
    input.LeftSphere = test.LeftSphere
    input.RightCylinder = test.RightCylinder
    input.LeftCylinder = test.LeftCylinder
    input.RightAxis = test.RightAxis
    input.LeftAxis = test.LeftAxis
    input.RightAdd = test.RightAdd
    input.LeftAdd = test.LeftAdd
}

// applyPatient fills age and lifestyle from the patient record unless the
// request already set them.
func (s *SuggestionService) applyPatient(input *lens.PrescriptionInput, patientID int) {
    patient, err := s.patientRepo.GetByID(patientID)
    if err != nil || patient == nil {
        log.Warn().Int("patientId", patientID).Msg("patient lookup failed during suggestion")
        return
    }
    if input.PatientAge == nil {
        input.PatientAge = patient.AgeAt(time.Now())
    }
    if input.Lifestyle == "" && patient.Lifestyle != "" {
        input.Lifestyle = lens.Lifestyle(patient.Lifestyle)
    }
}
