package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gigpro/internal/common"
	"gigpro/internal/models"
)

type GigServiceTestSuite struct {
	suite.Suite
	gigRepo    *MockGigRepository
	clientRepo *MockClientRepository
	service    GigService
	ctx        context.Context
	ownerID    uuid.UUID
	now        time.Time
}

func (suite *GigServiceTestSuite) SetupTest() {
	suite.gigRepo = new(MockGigRepository)
	suite.clientRepo = new(MockClientRepository)
	suite.service = NewGigService(suite.gigRepo, suite.clientRepo)
	suite.ctx = context.Background()
	suite.ownerID = uuid.New()
	suite.now = time.Date(2025, 8, 10, 18, 0, 0, 0, time.UTC)
	suite.service.(*gigService).now = func() time.Time { return suite.now }
}

func TestGigServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GigServiceTestSuite))
}

func (suite *GigServiceTestSuite) TestCreate_ReminderDefaultsOn() {
	suite.gigRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Gig")).Return(nil)

	gig, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateGigInput{
		Title: "Club night",
		Date:  suite.now.AddDate(0, 0, 7),
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), gig.ReminderSet)
	assert.Equal(suite.T(), suite.ownerID, gig.UserID)
}

func (suite *GigServiceTestSuite) TestCreate_TitleRequired() {
	_, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateGigInput{
		Date: suite.now.AddDate(0, 0, 7),
	})

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Equal(suite.T(), "title", validationErr.Field)
}

func (suite *GigServiceTestSuite) TestCreate_ForeignClientRejected() {
	clientID := uuid.New()
	suite.clientRepo.On("GetByID", suite.ctx, clientID).Return(&models.Client{
		ID:     clientID,
		UserID: uuid.New(),
		Name:   "Someone else's client",
	}, nil)

	_, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateGigInput{
		ClientID: &clientID,
		Title:    "Private party",
		Date:     suite.now.AddDate(0, 0, 7),
	})

	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
	suite.gigRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *GigServiceTestSuite) TestListByMonth_WindowCoversCalendarMonth() {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	suite.gigRepo.On("ListByDateRange", suite.ctx, suite.ownerID, start, end).Return([]*models.Gig{}, nil)

	// July is month 7 in the URL, 6 internally; August is 7 internally.
	_, err := suite.service.ListByMonth(suite.ctx, suite.ownerID, 2025, 7)

	assert.NoError(suite.T(), err)
	suite.gigRepo.AssertExpectations(suite.T())
}

func (suite *GigServiceTestSuite) TestListByMonth_DecemberRollsIntoNextYear() {
	start := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	suite.gigRepo.On("ListByDateRange", suite.ctx, suite.ownerID, start, end).Return([]*models.Gig{}, nil)

	_, err := suite.service.ListByMonth(suite.ctx, suite.ownerID, 2025, 11)

	assert.NoError(suite.T(), err)
	suite.gigRepo.AssertExpectations(suite.T())
}

func (suite *GigServiceTestSuite) TestListByMonth_OutOfRange() {
	_, err := suite.service.ListByMonth(suite.ctx, suite.ownerID, 2025, 12)

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
}

func (suite *GigServiceTestSuite) TestListUpcoming_DefaultLimit() {
	suite.gigRepo.On("ListUpcoming", suite.ctx, suite.ownerID, suite.now, 5).Return([]*models.Gig{}, nil)

	_, err := suite.service.ListUpcoming(suite.ctx, suite.ownerID, 0)

	assert.NoError(suite.T(), err)
	suite.gigRepo.AssertExpectations(suite.T())
}

func (suite *GigServiceTestSuite) TestUpdate_PartialFieldsOnly() {
	gigID := uuid.New()
	existing := &models.Gig{
		ID:          gigID,
		UserID:      suite.ownerID,
		Title:       "Warehouse rave",
		Date:        suite.now.AddDate(0, 0, 14),
		Fee:         floatPtr(350),
		ReminderSet: true,
	}
	suite.gigRepo.On("GetByID", suite.ctx, gigID).Return(existing, nil)
	suite.gigRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Gig")).Return(nil)

	updated, err := suite.service.Update(suite.ctx, suite.ownerID, gigID, &UpdateGigInput{
		Fee: floatPtr(400),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Warehouse rave", updated.Title)
	assert.Equal(suite.T(), 400.0, *updated.Fee)
	assert.True(suite.T(), updated.ReminderSet)
}

func (suite *GigServiceTestSuite) TestDelete_NotOwner() {
	gigID := uuid.New()
	suite.gigRepo.On("GetByID", suite.ctx, gigID).Return(&models.Gig{
		ID:     gigID,
		UserID: uuid.New(),
		Title:  "Not yours",
	}, nil)

	err := suite.service.Delete(suite.ctx, suite.ownerID, gigID)

	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
	suite.gigRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}
