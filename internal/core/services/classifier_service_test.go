package services_test

import (
	"context"
	"testing"

	"github.com/finpost/glcore/internal/core/domain"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ClassifierServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.ClassifierSvc
}

func (suite *ClassifierServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewClassifierService(suite.mockAccountRepo)
}

func (suite *ClassifierServiceTestSuite) TestDescendantClassIDs_Tree() {
	ctx := context.Background()

	suite.mockAccountRepo.On("ListChildClassIDs", ctx, domain.ClassExpense).Return([]string{domain.ClassCOGSExpense, domain.ClassSGAExpense}, nil).Once()
	suite.mockAccountRepo.On("ListChildClassIDs", ctx, domain.ClassCOGSExpense).Return([]string{"COGS_MATERIALS"}, nil).Once()
	suite.mockAccountRepo.On("ListChildClassIDs", ctx, domain.ClassSGAExpense).Return([]string{}, nil).Once()
	suite.mockAccountRepo.On("ListChildClassIDs", ctx, "COGS_MATERIALS").Return([]string{}, nil).Once()

	ids, err := suite.service.DescendantClassIDs(ctx, domain.ClassExpense)

	suite.Require().NoError(err)
	suite.Equal([]string{"COGS_MATERIALS", domain.ClassCOGSExpense, domain.ClassExpense, domain.ClassSGAExpense}, ids)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ClassifierServiceTestSuite) TestDescendantClassIDs_UnknownRoot() {
	ctx := context.Background()

	suite.mockAccountRepo.On("ListChildClassIDs", ctx, "NO_SUCH_CLASS").Return([]string{}, nil).Once()

	ids, err := suite.service.DescendantClassIDs(ctx, "NO_SUCH_CLASS")

	suite.Require().NoError(err)
	suite.Equal([]string{"NO_SUCH_CLASS"}, ids)
}

func (suite *ClassifierServiceTestSuite) TestDescendantClassIDs_CycleTerminates() {
	ctx := context.Background()

	// A and B point at each other; the walk must still terminate and report
	// each class once.
	suite.mockAccountRepo.On("ListChildClassIDs", ctx, "A").Return([]string{"B"}, nil).Once()
	suite.mockAccountRepo.On("ListChildClassIDs", ctx, "B").Return([]string{"A"}, nil).Once()

	ids, err := suite.service.DescendantClassIDs(ctx, "A")

	suite.Require().NoError(err)
	suite.Equal([]string{"A", "B"}, ids)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ClassifierServiceTestSuite) TestDescendantClassIDs_RepoError() {
	ctx := context.Background()
	repoErr := assert.AnError

	suite.mockAccountRepo.On("ListChildClassIDs", ctx, domain.ClassAsset).Return(nil, repoErr).Once()

	_, err := suite.service.DescendantClassIDs(ctx, domain.ClassAsset)

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
}

func TestClassifierService(t *testing.T) {
	suite.Run(t, new(ClassifierServiceTestSuite))
}
