package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/validation"
	"github.com/google/uuid"
)

// DoctorInput carries registration data. IsActive is honoured only for admin-created doctors.
type DoctorInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Title    string `json:"title"`
	IsActive *bool  `json:"isActive"`
}

type DoctorPatch struct {
	Name           *string
	Title          *string
	Phone          *string
	Bio            *string
	Image          *string
	Qualifications *string
	Certificates   *string
	Experience     *int
	Clients        *int
	IsActive       *bool
}

var doctorPatchFields = map[string]bool{
	"name":           true,
	"title":          true,
	"phone":          true,
	"bio":            true,
	"image":          true,
	"qualifications": true,
	"certificates":   true,
	"experience":     true,
	"clients":        true,
}

var doctorAdminPatchFields = map[string]bool{
	"title":    true,
	"isActive": true,
}

type DoctorService struct {
	doctorRepository repository.DoctorRepository
	authService      *AuthService
	fileService      *FileService
}

func NewDoctorService(doctorRepository repository.DoctorRepository, authService *AuthService, fileService *FileService) *DoctorService {
	return &DoctorService{
		doctorRepository: doctorRepository,
		authService:      authService,
		fileService:      fileService,
	}
}

// Register creates an active doctor account and signs a doctor token.
func (s *DoctorService) Register(input DoctorInput) (*model.Doctor, string, error) {
	doctor, err := s.create(input, true)
	if err != nil {
		return nil, "", err
	}

	token, err := s.authService.GenerateJWT(doctor.ID, PrincipalDoctor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return doctor, token, nil
}

// Create adds a doctor on behalf of an administrator.
func (s *DoctorService) Create(input DoctorInput) (*model.Doctor, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return s.create(input, active)
}

func (s *DoctorService) create(input DoctorInput, active bool) (*model.Doctor, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	err := validateCredentials(name, email, input.Password)
	if err != nil {
		return nil, err
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	doctor := &model.Doctor{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Title:        strings.TrimSpace(input.Title),
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.doctorRepository.Create(doctor)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	return doctor, nil
}

func (s *DoctorService) Login(email, password string) (*model.Doctor, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	doctor, err := s.doctorRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get doctor: %w", err)
	}

	err = s.authService.ComparePassword(password, doctor.PasswordHash)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.authService.GenerateJWT(doctor.ID, PrincipalDoctor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return doctor, token, nil
}

func (s *DoctorService) ByID(doctorID string) (*model.Doctor, error) {
	return s.doctorRepository.ByID(doctorID)
}

func (s *DoctorService) ByEmail(email string) (*model.Doctor, error) {
	return s.doctorRepository.ByEmail(strings.ToLower(strings.TrimSpace(email)))
}

// PublicProfile returns the practice's first active doctor.
func (s *DoctorService) PublicProfile() (*model.DoctorProfile, error) {
	doctor, err := s.doctorRepository.FirstActive()
	if err != nil {
		return nil, err
	}
	return doctor.Profile(), nil
}

func (s *DoctorService) Doctors() ([]*model.Doctor, error) {
	return s.doctorRepository.Doctors()
}

func (s *DoctorService) Update(doctorID string, patch *DoctorPatch) (*model.Doctor, error) {
	doctor, err := s.doctorRepository.ByID(doctorID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		err = validation.ValidateName(name)
		if err != nil {
			return nil, invalid("name", "%s", capitalize(err.Error()))
		}
		doctor.Name = name
	}
	setTrimmed(&doctor.Title, patch.Title)
	setTrimmed(&doctor.Phone, patch.Phone)
	setTrimmed(&doctor.Bio, patch.Bio)
	setTrimmed(&doctor.Image, patch.Image)
	setTrimmed(&doctor.Qualifications, patch.Qualifications)
	setTrimmed(&doctor.Certificates, patch.Certificates)
	if patch.Experience != nil {
		doctor.Experience = *patch.Experience
	}
	if patch.Clients != nil {
		doctor.Clients = *patch.Clients
	}
	if patch.IsActive != nil {
		doctor.IsActive = *patch.IsActive
	}

	err = s.doctorRepository.Update(doctor)
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	return doctor, nil
}

// UpdateImage stores a new profile image and points the doctor at it.
func (s *DoctorService) UpdateImage(doctorID string, upload Upload) (*model.Doctor, error) {
	doctor, err := s.doctorRepository.ByID(doctorID)
	if err != nil {
		return nil, err
	}

	file, err := s.fileService.Replace(model.FileOwnerDoctor, doctorID, model.FileTypeDoctorImage, upload)
	if err != nil {
		return nil, err
	}

	doctor.Image = s.fileService.URL(file)
	err = s.doctorRepository.Update(doctor)
	if err != nil {
		return nil, fmt.Errorf("failed to update doctor image: %w", err)
	}

	return doctor, nil
}

// ParseDoctorPatch decodes a doctor's own profile update.
func ParseDoctorPatch(data []byte) (*DoctorPatch, error) {
	return parseDoctorPatch(data, doctorPatchFields)
}

// ParseDoctorAdminPatch decodes an administrator's update of a doctor.
func ParseDoctorAdminPatch(data []byte) (*DoctorPatch, error) {
	return parseDoctorPatch(data, doctorAdminPatchFields)
}

func parseDoctorPatch(data []byte, allowed map[string]bool) (*DoctorPatch, error) {
	raw, err := decodePatch(data, allowed)
	if err != nil {
		return nil, err
	}

	patch := &DoctorPatch{}
	for key, value := range raw {
		switch key {
		case "name":
			patch.Name, err = decodeString(key, value)
		case "title":
			patch.Title, err = decodeString(key, value)
		case "phone":
			patch.Phone, err = decodeString(key, value)
		case "bio":
			patch.Bio, err = decodeString(key, value)
		case "image":
			patch.Image, err = decodeString(key, value)
		case "qualifications":
			patch.Qualifications, err = decodeString(key, value)
		case "certificates":
			patch.Certificates, err = decodeString(key, value)
		case "experience":
			patch.Experience, err = decodeInt(key, value)
		case "clients":
			patch.Clients, err = decodeInt(key, value)
		case "isActive":
			patch.IsActive, err = decodeBool(key, value)
		}
		if err != nil {
			return nil, err
		}
	}

	return patch, nil
}

func setTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
