package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/services"
)

// MockMenuItemRepository is a mock implementation of repositories.MenuItemRepository
type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	args := m.Called()
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Search(query string) ([]models.MenuItem, error) {
	args := m.Called(query)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Create(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Update(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestMenuService_GetMenuItems(t *testing.T) {
	mockRepo := new(MockMenuItemRepository)
	service := services.NewMenuService(mockRepo)

	expected := []models.MenuItem{
		{ID: 1, Title: "Burger", PriceCents: 500},
		{ID: 2, Title: "Fries", PriceCents: 250},
	}

	mockRepo.On("GetAll").Return(expected, nil).Once()

	items, err := service.GetMenuItems("")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, expected, items)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_GetMenuItemsWithSearch(t *testing.T) {
	mockRepo := new(MockMenuItemRepository)
	service := services.NewMenuService(mockRepo)

	expected := []models.MenuItem{{ID: 1, Title: "Burger", PriceCents: 500}}

	mockRepo.On("Search", "burger").Return(expected, nil).Once()

	items, err := service.GetMenuItems("burger")

	assert.NoError(t, err)
	assert.Equal(t, expected, items)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_GetMenuItemByID(t *testing.T) {
	mockRepo := new(MockMenuItemRepository)
	service := services.NewMenuService(mockRepo)

	expected := &models.MenuItem{ID: 1, Title: "Burger", PriceCents: 500}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expected, nil).Once()
	item, err := service.GetMenuItemByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, item)
	mockRepo.AssertExpectations(t)

	// Test menu item not found
	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("menu item with ID 99 not found")).Once()
	item, err = service.GetMenuItemByID(99)
	assert.ErrorIs(t, err, services.ErrMenuItemNotFound)
	assert.Nil(t, item)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_CreateMenuItem(t *testing.T) {
	mockRepo := new(MockMenuItemRepository)
	service := services.NewMenuService(mockRepo)

	item := &models.MenuItem{Title: "Pizza", PriceCents: 900}

	mockRepo.On("Create", item).Return(nil).Once()
	err := service.CreateMenuItem(item)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	mockRepo.On("Create", item).Return(fmt.Errorf("database error")).Once()
	err = service.CreateMenuItem(item)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
