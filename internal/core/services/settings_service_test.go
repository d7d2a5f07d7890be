package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/core/services"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	mockRepo *MockSettingsRepository
	service  portssvc.SettingsSvcFacade
	userID   string
}

func (s *SettingsServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockSettingsRepository)
	s.service = services.NewSettingsService(s.mockRepo, policy.ModeBeginner)
	s.userID = uuid.NewString()
}

func (s *SettingsServiceTestSuite) TestGetValidationMode_Stored() {
	ctx := context.Background()
	s.mockRepo.On("GetSetting", ctx, s.userID, "validation_mode").Return("pro", nil).Once()

	mode, err := s.service.GetValidationMode(ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(policy.ModePro, mode)
}

func (s *SettingsServiceTestSuite) TestGetValidationMode_DefaultsWhenUnset() {
	ctx := context.Background()
	s.mockRepo.On("GetSetting", ctx, s.userID, "validation_mode").Return("", apperrors.ErrNotFound).Once()

	mode, err := s.service.GetValidationMode(ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(policy.ModeBeginner, mode)
}

func (s *SettingsServiceTestSuite) TestGetValidationMode_DefaultsOnGarbage() {
	ctx := context.Background()
	s.mockRepo.On("GetSetting", ctx, s.userID, "validation_mode").Return("turbo", nil).Once()

	mode, err := s.service.GetValidationMode(ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(policy.ModeBeginner, mode)
}

func (s *SettingsServiceTestSuite) TestSetValidationMode() {
	ctx := context.Background()
	s.mockRepo.On("PutSetting", ctx, s.userID, "validation_mode", "pro", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.SetValidationMode(ctx, s.userID, policy.ModePro)

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
