package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gigpro/internal/common"
	"gigpro/internal/models"
)

type ClientServiceTestSuite struct {
	suite.Suite
	clientRepo *MockClientRepository
	service    ClientService
	ctx        context.Context
	ownerID    uuid.UUID
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.clientRepo = new(MockClientRepository)
	suite.service = NewClientService(suite.clientRepo)
	suite.ctx = context.Background()
	suite.ownerID = uuid.New()
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (suite *ClientServiceTestSuite) TestCreate_Success() {
	suite.clientRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Client")).Return(nil)

	client, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateClientInput{
		Name:  "Riverside Weddings",
		Email: stringPtr("events@riverside.example"),
		Tags:  []string{"wedding", "repeat"},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.ownerID, client.UserID)
	assert.Equal(suite.T(), "Riverside Weddings", client.Name)
	assert.Equal(suite.T(), []string{"wedding", "repeat"}, client.Tags)
}

func (suite *ClientServiceTestSuite) TestCreate_NameRequired() {
	_, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateClientInput{
		Name: "   ",
	})

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Equal(suite.T(), "name", validationErr.Field)
}

func (suite *ClientServiceTestSuite) TestCreate_NotesTooLong() {
	_, err := suite.service.Create(suite.ctx, suite.ownerID, &CreateClientInput{
		Name:  "Chatty Client",
		Notes: stringPtr(strings.Repeat("x", 2001)),
	})

	var validationErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Equal(suite.T(), "notes", validationErr.Field)
}

func (suite *ClientServiceTestSuite) TestGetByID_NotOwner() {
	clientID := uuid.New()
	suite.clientRepo.On("GetByID", suite.ctx, clientID).Return(&models.Client{
		ID:     clientID,
		UserID: uuid.New(),
		Name:   "Someone else's client",
	}, nil)

	_, err := suite.service.GetByID(suite.ctx, suite.ownerID, clientID)

	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
}

func (suite *ClientServiceTestSuite) TestUpdate_PartialFields() {
	clientID := uuid.New()
	existing := &models.Client{
		ID:     clientID,
		UserID: suite.ownerID,
		Name:   "Riverside Weddings",
		Email:  stringPtr("old@riverside.example"),
	}
	suite.clientRepo.On("GetByID", suite.ctx, clientID).Return(existing, nil)
	suite.clientRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Client")).Return(nil)

	updated, err := suite.service.Update(suite.ctx, suite.ownerID, clientID, &UpdateClientInput{
		Email: stringPtr("new@riverside.example"),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Riverside Weddings", updated.Name)
	assert.Equal(suite.T(), "new@riverside.example", *updated.Email)
}

func (suite *ClientServiceTestSuite) TestDelete_NotFound() {
	clientID := uuid.New()
	suite.clientRepo.On("GetByID", suite.ctx, clientID).Return(nil, common.ErrNotFound)

	err := suite.service.Delete(suite.ctx, suite.ownerID, clientID)

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	suite.clientRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}
